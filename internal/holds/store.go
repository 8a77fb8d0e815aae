package holds

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key per held car-day: hold:car:{carID}:{yyyy-mm-dd} -> purchaseID
const keyCarDay = "hold:car:%s:%s"

const dayLayout = "2006-01-02"

// Store places short-lived holds on a car's days while a checkout is
// in flight, so two concurrent checkouts for overlapping ranges cannot
// both reach the gateway. Holds expire on their own; terminal payment
// outcomes release them early.
type Store interface {
	Acquire(ctx context.Context, carID, purchaseID string, start, end time.Time) (bool, error)
	Release(ctx context.Context, carID, purchaseID string, start, end time.Time) error
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// dayKeys lists one key per calendar day the half-open range touches.
// Start is truncated to UTC midnight and the loop runs while the day
// begins before end, so a range ending mid-day still holds the day
// containing end.
func dayKeys(carID string, start, end time.Time) []string {
	start = start.UTC()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	var keys []string
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		keys = append(keys, fmt.Sprintf(keyCarDay, carID, day.Format(dayLayout)))
	}
	return keys
}

// Acquire takes every day key of [start, end). All-or-nothing: on the
// first day already held by another purchase, the days taken so far are
// released and false is returned.
func (s *redisStore) Acquire(ctx context.Context, carID, purchaseID string, start, end time.Time) (bool, error) {
	var taken []string
	for _, key := range dayKeys(carID, start, end) {
		ok, err := s.rdb.SetNX(ctx, key, purchaseID, s.ttl).Result()
		if err != nil {
			s.drop(ctx, taken, purchaseID)
			return false, fmt.Errorf("holds: acquire %s: %w", key, err)
		}
		if !ok {
			s.drop(ctx, taken, purchaseID)
			return false, nil
		}
		taken = append(taken, key)
	}
	return true, nil
}

func (s *redisStore) Release(ctx context.Context, carID, purchaseID string, start, end time.Time) error {
	s.drop(ctx, dayKeys(carID, start, end), purchaseID)
	return nil
}

// drop deletes only keys still owned by purchaseID, so a hold taken by
// a newer attempt is left alone.
func (s *redisStore) drop(ctx context.Context, keys []string, purchaseID string) {
	for _, key := range keys {
		v, err := s.rdb.Get(ctx, key).Result()
		if err != nil || v != purchaseID {
			continue
		}
		s.rdb.Del(ctx, key)
	}
}
