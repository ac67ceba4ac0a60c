package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a record identifier. The backend emits integers for most
// collections and strings for a few; both decode to the same text form.
type ID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*id = ID(n.String())
	}
	return nil
}

// MarshalJSON writes integer ids as JSON numbers, so foreign keys round
// trip to the backend in the type it uses.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if canonicalInt(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func canonicalInt(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == s
}

func (id ID) String() string { return string(id) }
