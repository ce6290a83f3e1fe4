package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Properties is an insertion-ordered "properties" map. Editors render fields
// in document order, so declaration order is preserved on output.
type Properties struct {
	keys []string
	vals map[string]*Schema
}

// NewProperties returns an empty, non-nil property map.
func NewProperties() *Properties {
	return &Properties{vals: map[string]*Schema{}}
}

// Set adds or replaces a property. A replaced property keeps its position.
func (p *Properties) Set(name string, s *Schema) {
	if p.vals == nil {
		p.vals = map[string]*Schema{}
	}
	if _, ok := p.vals[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.vals[name] = s
}

// Get returns the named property.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.vals[name]
	return s, ok
}

// Delete removes a property and reports whether it was present.
func (p *Properties) Delete(name string) bool {
	if p == nil {
		return false
	}
	if _, ok := p.vals[name]; !ok {
		return false
	}
	delete(p.vals, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the property names in order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len is the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Clone deep-copies the map.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	out := NewProperties()
	for _, k := range p.keys {
		out.Set(k, p.vals[k].Clone())
	}
	return out
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("jsonschema: properties must be an object")
	}
	*p = Properties{vals: map[string]*Schema{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("jsonschema: unexpected property key %v", tok)
		}
		s := &Schema{}
		if err := dec.Decode(s); err != nil {
			return fmt.Errorf("jsonschema: property %q: %w", name, err)
		}
		p.Set(name, s)
	}
	_, err = dec.Token()
	return err
}
