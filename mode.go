package catalogschema

import "fmt"

// Mode selects how the collection schema composes its alternatives.
type Mode int

const (
	// ModeValidation emits one guarded pair per concrete class so validators
	// can name the type that failed.
	ModeValidation Mode = iota
	// ModeEditor emits a plain oneOf of shell references for type pickers.
	ModeEditor
)

func (m Mode) String() string {
	switch m {
	case ModeEditor:
		return "editor"
	default:
		return "validation"
	}
}

// ParseMode converts "validation" or "editor" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "validation":
		return ModeValidation, nil
	case "editor":
		return ModeEditor, nil
	}
	return ModeValidation, fmt.Errorf("catalogschema: unknown mode %q (want validation or editor)", s)
}
