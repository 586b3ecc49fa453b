package screens

import "github.com/muurk/xmlconfig/internal/xmlconfig"

// Field is one input row of an editor form.
type Field struct {
	Label       string
	Value       string
	Placeholder string
	Help        string   // Shown while the field is focused
	Choices     []string // Fixed values cycled with left/right; free text when empty
	CharLimit   int
}

// Form maps a config object to editor fields and back.
type Form[T xmlconfig.Object] interface {
	// Fields describes obj. obj is the zero value when adding.
	Fields(obj T, updating bool) []Field
	// Build creates a candidate from the field values, given in Fields order.
	Build(values []string) (T, error)
}
