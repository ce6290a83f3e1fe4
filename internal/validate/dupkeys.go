package validate

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// DuplicateKeysError reports object members defined more than once in a
// document. Pointers are RFC 6901 JSON pointers of the repeated members.
type DuplicateKeysError struct {
	Pointers []string
}

func (e *DuplicateKeysError) Error() string {
	return "duplicate keys: " + strings.Join(e.Pointers, ", ")
}

type dupFrame struct {
	object    bool
	keys      map[string]struct{}
	expectKey bool
	seg       string
	next      int
}

// DuplicateKeys returns the pointers of every repeated object member in data,
// in document order. Syntax errors are returned as is.
func DuplicateKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		stack []*dupFrame
		dups  []string
	)
	done := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectKey = true
		}
	}
	pop := func() {
		stack = stack[:len(stack)-1]
		done()
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if len(stack) > 0 {
				return dups, io.ErrUnexpectedEOF
			}
			return dups, nil
		}
		if err != nil {
			return dups, err
		}
		var top *dupFrame
		if n := len(stack); n > 0 {
			top = stack[n-1]
		}

		if top != nil && top.object && top.expectKey {
			if d, ok := tok.(json.Delim); ok && d == '}' {
				pop()
				continue
			}
			key, _ := tok.(string)
			if _, seen := top.keys[key]; seen {
				dups = append(dups, pointer(stack[:len(stack)-1], key))
			}
			top.keys[key] = struct{}{}
			top.seg = key
			top.expectKey = false
			continue
		}
		if top != nil && !top.object {
			if d, ok := tok.(json.Delim); ok && d == ']' {
				pop()
				continue
			}
			top.seg = strconv.Itoa(top.next)
			top.next++
		}

		switch tok {
		case json.Delim('{'):
			stack = append(stack, &dupFrame{object: true, keys: map[string]struct{}{}, expectKey: true})
		case json.Delim('['):
			stack = append(stack, &dupFrame{})
		default:
			done()
		}
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointer(parents []*dupFrame, last string) string {
	var b strings.Builder
	for _, f := range parents {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(f.seg))
	}
	b.WriteByte('/')
	b.WriteString(pointerEscaper.Replace(last))
	return b.String()
}
