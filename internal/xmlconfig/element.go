package xmlconfig

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Codec converts between config objects and their XML representation.
// Decode(Encode(objs)) must reproduce every persisted field.
type Codec[T Object] interface {
	// Encode returns a complete XML document holding objects.
	Encode(objects []T) ([]byte, error)
	// Decode builds one object from an entry element. Returning an error
	// skips the entry; the rest of the document is still loaded.
	Decode(el Element) (T, error)
}

// Element is one entry of a configuration document.
type Element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

// document matches any root element and collects its child elements.
type document struct {
	XMLName xml.Name
	Entries []Element `xml:",any"`
}

// Tag returns the local element name.
func (e Element) Tag() string {
	return e.XMLName.Local
}

// Attr returns the value of the named attribute.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of the named attribute or def when absent.
func (e Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// Bool decodes a boolean attribute using words. A missing attribute yields def;
// an unknown value yields false and an error describing it.
func (e Element) Bool(name string, def bool, words BoolStrings) (bool, error) {
	v, ok := e.Attr(name)
	if !ok {
		return def, nil
	}
	return words.Parse(v)
}

// Raw re-serializes the element including its own start and end tags.
func (e Element) Raw() ([]byte, error) {
	start := xml.StartElement{Name: xml.Name{Local: e.XMLName.Local}}
	for _, a := range e.Attrs {
		// Namespace declarations are dropped along with element namespaces
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name.Local}, Value: a.Value})
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := enc.EncodeToken(start); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.Write(e.Inner)
	if err := enc.EncodeToken(start.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode unmarshals the element into v using encoding/xml struct tags.
func (e Element) Decode(v any) error {
	raw, err := e.Raw()
	if err != nil {
		return fmt.Errorf("failed to rebuild element <%s>: %w", e.Tag(), err)
	}
	return xml.Unmarshal(raw, v)
}

// ParseDocument parses data and returns the root's child elements named tag.
// Other children are ignored.
func ParseDocument(data []byte, tag string) ([]Element, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	entries := make([]Element, 0, len(doc.Entries))
	for _, el := range doc.Entries {
		if el.Tag() == tag {
			entries = append(entries, el)
		}
	}
	return entries, nil
}

// MarshalDocument marshals v as an indented XML document with the standard header.
// Codecs use it to implement Encode.
func MarshalDocument(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "\t")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
