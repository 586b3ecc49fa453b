package xmlconfig

import "fmt"

// BoolStrings are the words written to XML for true and false.
type BoolStrings struct {
	True  string `yaml:"true"`
	False string `yaml:"false"`
}

// DefaultBoolStrings writes booleans as "yes" and "no".
var DefaultBoolStrings = BoolStrings{True: "yes", False: "no"}

// Format returns the XML word for v.
func (b BoolStrings) Format(v bool) string {
	if v {
		return b.True
	}
	return b.False
}

// Parse converts an XML word back to a bool. Unknown words yield false and an error.
func (b BoolStrings) Parse(value string) (bool, error) {
	switch value {
	case b.True:
		return true, nil
	case b.False:
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q (expected %q or %q)", value, b.True, b.False)
	}
}

// OrDefault returns DefaultBoolStrings when either word is empty.
func (b BoolStrings) OrDefault() BoolStrings {
	if b.True == "" || b.False == "" {
		return DefaultBoolStrings
	}
	return b
}
