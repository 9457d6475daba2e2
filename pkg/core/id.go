package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ID identifies an editor, table or tab state.
// Server records use integer keys while browser-persisted records use
// strings, so ID decodes from either JSON form and always encodes as a string.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(canonicalNumber(n))
	return nil
}

// canonicalNumber formats integral numbers without fraction or exponent,
// so 5, 5.0 and 5e0 name the same record.
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err == nil && f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// Int64 parses the identifier as a database key.
func (id ID) Int64() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}

// IDFromInt64 formats a database key as an ID.
func IDFromInt64(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}
