package catalogschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/catalogschema/i18n"
)

// Failure codes.
const (
	CodeStructuralScan          = "structural_scan_failure"
	CodeMissingClassDeclaration = "missing_class_declaration"
	CodeUnsupportedArrayType    = "unsupported_array_type"
	CodeDuplicateTypeID         = "duplicate_type_id"
	CodeUnresolvedParent        = "unresolved_parent"
	CodeHierarchyCycle          = "hierarchy_cycle"
	CodeInvalidDocumentation    = "invalid_documentation"
	// I/O against the external collaborators
	CodeReadFailure  = "read_failure"
	CodeWriteFailure = "write_failure"
)

// Sentinel errors wrapped by the pipeline stages.
var (
	ErrStructuralScan          = errors.New("no inheritance or root marker found")
	ErrMissingClassDeclaration = errors.New("no class-level documentation record")
	ErrUnsupportedArrayType    = errors.New("array property has no mappable item type")
	ErrDuplicateTypeID         = errors.New("type id declared by more than one class")
	ErrUnresolvedParent        = errors.New("parent class is not part of the batch")
	ErrHierarchyCycle          = errors.New("parent chain does not reach the root")
	ErrInvalidDocumentation    = errors.New("documentation records are malformed")
)

var sentinelCodes = []struct {
	err  error
	code string
}{
	{ErrStructuralScan, CodeStructuralScan},
	{ErrMissingClassDeclaration, CodeMissingClassDeclaration},
	{ErrUnsupportedArrayType, CodeUnsupportedArrayType},
	{ErrDuplicateTypeID, CodeDuplicateTypeID},
	{ErrUnresolvedParent, CodeUnresolvedParent},
	{ErrHierarchyCycle, CodeHierarchyCycle},
	{ErrInvalidDocumentation, CodeInvalidDocumentation},
}

// CodeOf maps an error to its failure code. Errors that wrap none of the
// sentinels yield fallback.
func CodeOf(err error, fallback string) string {
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return fallback
}

// Failure is a single per-class derivation failure.
type Failure struct {
	Class   string
	File    string // Source file, when known.
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// NewFailure builds a Failure whose code is derived from err.
func NewFailure(class, file string, err error, fallback string) Failure {
	code := CodeOf(err, fallback)
	return Failure{
		Class:   class,
		File:    file,
		Code:    code,
		Message: i18n.T(code, map[string]string{"class": class}),
		Cause:   err,
	}
}

func (f Failure) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s: %s", f.Class, f.Code)
	if f.File != "" {
		fmt.Fprintf(b, " (%s)", f.File)
	}
	if f.Cause != nil {
		fmt.Fprintf(b, ": %v", f.Cause)
	} else if f.Message != "" {
		fmt.Fprintf(b, ": %s", f.Message)
	}
	return b.String()
}

func (f Failure) Unwrap() error { return f.Cause }

// Failures is a collection of per-class failures that implements error.
type Failures []Failure

// Unwrap exposes every failure to errors.Is and errors.As.
func (fs Failures) Unwrap() []error {
	out := make([]error, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

// Error summarizes the first few failures.
func (fs Failures) Error() string {
	if len(fs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(fs)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. structural_scan_failure in FooCatalogItem
		fmt.Fprintf(b, "%s in %s", fs[i].Code, fs[i].Class)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ByCode returns the failures carrying the given code.
func (fs Failures) ByCode(code string) Failures {
	var out Failures
	for _, f := range fs {
		if f.Code == code {
			out = append(out, f)
		}
	}
	return out
}

// AsFailures extracts Failures from an error using errors.As internally.
func AsFailures(err error) (Failures, bool) {
	if err == nil {
		return nil, false
	}
	var fs Failures
	if errors.As(err, &fs) {
		return fs, true
	}
	return nil, false
}
