package jsdoc

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	catalogschema "github.com/reoring/catalogschema"
)

type rawRecord struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	MemberOf    string `json:"memberof"`
	Description string `json:"description"`
	Meta        *struct {
		Lineno int `json:"lineno"`
	} `json:"meta"`
	Type *struct {
		Names []string `json:"names"`
	} `json:"type"`
	CustomTags []struct {
		Tag   string `json:"tag"`
		Value string `json:"value"`
	} `json:"customTags"`
}

// Decode reads the JSON array produced by jsdoc-parse. Entries without a
// kind or name, and members without a line number, are reported as warnings
// and skipped. A document that is not a JSON array is an error.
func Decode(data []byte) ([]Record, Diag, error) {
	d := &simpleDiag{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, d, fmt.Errorf("%w: expected a JSON array of doclets", catalogschema.ErrInvalidDocumentation)
	}
	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, d, fmt.Errorf("%w: %v", catalogschema.ErrInvalidDocumentation, err)
	}
	out := make([]Record, 0, len(raws))
	for i, rr := range raws {
		if rr.Kind == "" || rr.Name == "" {
			d.warnf("doclet %d: missing kind or name", i)
			continue
		}
		r := Record{
			Kind:        Kind(rr.Kind),
			Name:        rr.Name,
			MemberOf:    rr.MemberOf,
			Description: rr.Description,
		}
		if rr.Meta != nil {
			r.Line = rr.Meta.Lineno
		}
		if r.Kind == KindMember && r.Line <= 0 {
			d.warnf("doclet %d (%s): member without meta.lineno", i, rr.Name)
			continue
		}
		if rr.Type != nil {
			for _, n := range rr.Type.Names {
				if c := CanonicalType(n); c != "" {
					r.TypeNames = append(r.TypeNames, c)
				}
			}
		}
		for _, t := range rr.CustomTags {
			if t.Tag == "" {
				continue
			}
			if r.Tags == nil {
				r.Tags = map[string]string{}
			}
			r.Tags[t.Tag] = t.Value
		}
		out = append(out, r)
	}
	return out, d, nil
}
