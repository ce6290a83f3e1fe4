package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Types is the "type" keyword: a single name, or a list when a value may take
// several primitive types.
type Types []string

// Type builds a Types value from names.
func Type(names ...string) Types { return Types(names) }

// Is reports whether t is exactly the single type name.
func (t Types) Is(name string) bool { return len(t) == 1 && t[0] == name }

func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

func (t *Types) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = nil
		return nil
	}
	switch b[0] {
	case '"':
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*t = Types{one}
		return nil
	case '[':
		var many []string
		if err := json.Unmarshal(b, &many); err != nil {
			return err
		}
		*t = Types(many)
		return nil
	}
	return fmt.Errorf("jsonschema: type must be a string or a list, got %s", string(b))
}
