package generator

import (
	"fmt"
	"sort"
	"strings"

	catalogschema "github.com/reoring/catalogschema"
)

// check runs the batch-wide checks: type ids must be unique, parents must be
// known, and parent chains must reach a family root without cycles. prior
// holds the classes that already failed derivation.
func (g *Generator) check(results []derived, prior catalogschema.Failures) catalogschema.Failures {
	var out catalogschema.Failures
	byName := make(map[string]catalogschema.ClassModel, len(results))
	byID := map[string][]string{}
	for _, d := range results {
		byName[d.model.Name] = d.model
		if d.model.Concrete() {
			byID[d.model.TypeID] = append(byID[d.model.TypeID], d.model.Name)
		}
	}

	for id, names := range byID {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		for _, n := range names {
			err := fmt.Errorf("%w: %q is declared by %s", catalogschema.ErrDuplicateTypeID, id, strings.Join(names, ", "))
			out = append(out, catalogschema.NewFailure(n, byName[n].File, err, ""))
		}
	}

	fam := g.opts.Family
	for _, d := range results {
		m := d.model
		if m.IsRoot() {
			continue
		}
		if _, ok := byName[m.ParentName]; !ok && !fam.IsFamilyRoot(m.ParentName) {
			err := fmt.Errorf("%w: %s extends %s", catalogschema.ErrUnresolvedParent, m.Name, m.ParentName)
			out = append(out, catalogschema.NewFailure(m.Name, m.File, err, ""))
			continue
		}
		if chain, ok := cyclic(m.Name, byName); ok {
			err := fmt.Errorf("%w: %s", catalogschema.ErrHierarchyCycle, strings.Join(chain, " -> "))
			out = append(out, catalogschema.NewFailure(m.Name, m.File, err, ""))
		}
	}
	bad := map[string]bool{}
	for _, f := range prior {
		bad[f.Class] = true
	}
	for _, f := range out {
		bad[f.Class] = true
	}
	return append(out, descendants(bad, fam, results, byName)...)
}

// descendants flags classes whose allOf chain references a rejected class,
// either through the parent chain or through the family roots.
func descendants(bad map[string]bool, fam catalogschema.Family, results []derived, byName map[string]catalogschema.ClassModel) catalogschema.Failures {
	var out catalogschema.Failures
	for _, d := range results {
		m := d.model
		if bad[m.Name] {
			continue
		}
		if root, ok := rejectedRoot(m, fam, bad); ok {
			err := fmt.Errorf("%w: ancestor %s of %s was rejected", catalogschema.ErrUnresolvedParent, root, m.Name)
			out = append(out, catalogschema.NewFailure(m.Name, m.File, err, ""))
			continue
		}
		seen := map[string]bool{m.Name: true}
		for cur := m.ParentName; cur != "" && !seen[cur]; {
			seen[cur] = true
			if bad[cur] {
				err := fmt.Errorf("%w: ancestor %s of %s was rejected", catalogschema.ErrUnresolvedParent, cur, m.Name)
				out = append(out, catalogschema.NewFailure(m.Name, m.File, err, ""))
				break
			}
			p, ok := byName[cur]
			if !ok {
				break
			}
			cur = p.ParentName
		}
	}
	return out
}

// rejectedRoot reports the first rejected family root that the allOf chain
// of m references.
func rejectedRoot(m catalogschema.ClassModel, fam catalogschema.Family, bad map[string]bool) (string, bool) {
	if m.IsRoot() {
		return "", false
	}
	roots := []string{fam.Root}
	switch {
	case fam.InItemFamily(m.Name):
		roots = append(roots, fam.Item)
	case fam.InGroupFamily(m.Name):
		roots = append(roots, fam.Group)
	}
	for _, r := range roots {
		if bad[r] {
			return r, true
		}
	}
	return "", false
}

// cyclic follows parents from name and reports the chain when a class is
// visited twice.
func cyclic(name string, byName map[string]catalogschema.ClassModel) ([]string, bool) {
	seen := map[string]bool{}
	chain := []string{}
	cur := name
	for {
		if seen[cur] {
			return append(chain, cur), true
		}
		seen[cur] = true
		chain = append(chain, cur)
		m, ok := byName[cur]
		if !ok || m.IsRoot() {
			return nil, false
		}
		cur = m.ParentName
	}
}
