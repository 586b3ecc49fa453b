package xmlconfig

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// item is the config object used throughout the package tests.
type item struct {
	id    string
	label string
	on    bool
}

func (i *item) Key() string   { return i.id }
func (i *item) Name() string  { return i.label }
func (i *item) Enabled() bool { return i.on }

func newItem(id, label string) *item {
	return &item{id: id, label: label, on: true}
}

type itemXML struct {
	XMLName xml.Name `xml:"item"`
	ID      string   `xml:"id,attr"`
	On      string   `xml:"on,attr"`
	Label   string   `xml:"label"`
}

type itemsXML struct {
	XMLName xml.Name  `xml:"items"`
	Items   []itemXML `xml:"item"`
}

type itemCodec struct {
	words BoolStrings
}

func (c itemCodec) Encode(objects []*item) ([]byte, error) {
	words := c.words.OrDefault()
	doc := itemsXML{}
	for _, it := range objects {
		doc.Items = append(doc.Items, itemXML{ID: it.id, On: words.Format(it.on), Label: it.label})
	}
	return MarshalDocument(doc)
}

func (c itemCodec) Decode(el Element) (*item, error) {
	var x itemXML
	if err := el.Decode(&x); err != nil {
		return nil, err
	}
	if x.ID == "" {
		return nil, errors.New("missing id")
	}
	on, err := el.Bool("on", true, c.words.OrDefault())
	if err != nil {
		return nil, err
	}
	return &item{id: x.ID, label: x.Label, on: on}, nil
}

// newTestSupport returns a Support bound to a file in a fresh temp dir and the
// observed log entries.
func newTestSupport(t *testing.T, hooks Hooks[*item]) (*Support[*item], *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	s := New(Options[*item]{
		Path:   filepath.Join(t.TempDir(), "items.xml"),
		Tag:    "item",
		Codec:  itemCodec{},
		Logger: zap.New(core),
		Hooks:  hooks,
	})
	return s, logs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// setModTime pins the modification time so staleness checks are deterministic.
func setModTime(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set mtime on %s: %v", path, err)
	}
}

func keysOf(objects []*item) []string {
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.id)
	}
	return keys
}

const threeItems = `<?xml version="1.0" encoding="UTF-8"?>
<items>
	<item id="a" on="yes"><label>Alpha</label></item>
	<item id="b" on="no"><label>Bravo</label></item>
	<item id="c"><label>Charlie</label></item>
</items>
`
