package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is a []string which will be stored in a database as a JSON array.
type StringSlice []string

var _ driver.Valuer = (*StringSlice)(nil)

// Value implements the driver.Valuer interface, marshalling the raw value to
// a JSON array. A nil slice is stored as an empty array.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	v, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(v), nil
}

// Scan implements the sql.Scanner interface, unmarshalling the value coming
// off the wire and storing the result in the StringSlice.
func (s *StringSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = StringSlice{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("cannot scan %T into StringSlice", value)
}
