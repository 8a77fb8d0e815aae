package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance bounds how old a signed webhook timestamp may be.
const DefaultTolerance = 5 * time.Minute

// ConstructEvent verifies the Stripe-Signature header against the raw
// payload and only then unmarshals it. The header carries
// "t=<unix>,v1=<hex hmac>[,v1=...]"; the signed message is
// "<t>.<payload>" under HMAC-SHA256 with the endpoint secret. Nothing
// in the payload is trusted before this check passes.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	if err := verifySignature(payload, sigHeader, secret, time.Now()); err != nil {
		return nil, err
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("stripe: unmarshal event: %w", err)
	}
	return &ev, nil
}

func verifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	var ts int64
	var sigs []string

	for _, part := range strings.Split(sigHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			ts = n
		case "v1":
			sigs = append(sigs, v)
		}
	}

	if ts == 0 || len(sigs) == 0 {
		return ErrInvalidSignature
	}
	if now.Sub(time.Unix(ts, 0)) > DefaultTolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, s := range sigs {
		got, err := hex.DecodeString(s)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, got) {
			return nil
		}
	}
	return ErrInvalidSignature
}
