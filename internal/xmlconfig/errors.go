package xmlconfig

import "fmt"

// ErrorKind represents the category of a synchronization failure
type ErrorKind int

const (
	// KindIO indicates the file could not be read, written or renamed
	KindIO ErrorKind = iota
	// KindNoData indicates the file is absent or empty
	KindNoData
	// KindDocument indicates the file is not a well-formed XML document
	KindDocument
	// KindEntry indicates a single entry could not be decoded
	KindEntry
	// KindWriteRefused indicates the canonical file is locked by an edit session
	KindWriteRefused
	// KindCodec indicates the codec is missing or broke its contract
	KindCodec
	// KindSelection indicates an operation was asked to work on nothing
	KindSelection
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O Error"
	case KindNoData:
		return "No Data"
	case KindDocument:
		return "Document Error"
	case KindEntry:
		return "Entry Error"
	case KindWriteRefused:
		return "Write Refused"
	case KindCodec:
		return "Codec Error"
	case KindSelection:
		return "Empty Selection"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error represents a failure while reading or writing a configuration file
type Error struct {
	Kind    ErrorKind // Category of error
	Path    string    // File involved (if any)
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
// This lets callers use errors.Is with the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrNoData         = &Error{Kind: KindNoData, Message: "no configuration file present or file is empty"}
	ErrDocument       = &Error{Kind: KindDocument, Message: "malformed document"}
	ErrWriteRefused   = &Error{Kind: KindWriteRefused, Message: "writing is forbidden while an edit session is open"}
	ErrCodec          = &Error{Kind: KindCodec, Message: "codec contract violated"}
	ErrEmptySelection = &Error{Kind: KindSelection, Message: "no objects selected"}
)

func newError(kind ErrorKind, path, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Path:    path,
		Message: message,
		Err:     err,
	}
}
