package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Features is a list of car feature labels stored as a JSON text column.
type Features []string

// Value implements the driver.Valuer interface
func (f Features) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (f *Features) Scan(src interface{}) error {
	if src == nil {
		*f = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return errors.New("features: unsupported column type")
	}
}
