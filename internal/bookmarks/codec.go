package bookmarks

import (
	"encoding/xml"
	"errors"

	"go.uber.org/zap"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// entryXML is the on-disk shape of one bookmark:
//
//	<bookmark name="Movies" enabled="yes">
//	    <location>/media/hdd/movie</location>
//	</bookmark>
type entryXML struct {
	XMLName  xml.Name `xml:"bookmark"`
	Name     string   `xml:"name,attr"`
	Enabled  string   `xml:"enabled,attr"`
	Location string   `xml:"location"`
}

type documentXML struct {
	XMLName xml.Name   `xml:"bookmarks"`
	Entries []entryXML `xml:"bookmark"`
}

// Codec converts bookmarks to and from XML.
type Codec struct {
	words xmlconfig.BoolStrings
	log   *zap.Logger
}

// NewCodec creates a codec writing booleans with words.
func NewCodec(words xmlconfig.BoolStrings, log *zap.Logger) *Codec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Codec{words: words.OrDefault(), log: log}
}

// Encode implements xmlconfig.Codec
func (c *Codec) Encode(objects []*Bookmark) ([]byte, error) {
	doc := documentXML{Entries: make([]entryXML, 0, len(objects))}
	for _, b := range objects {
		if b == nil {
			continue
		}
		doc.Entries = append(doc.Entries, entryXML{
			Name:     b.Label,
			Enabled:  c.words.Format(b.Active),
			Location: b.Location,
		})
	}
	return xmlconfig.MarshalDocument(doc)
}

// Decode implements xmlconfig.Codec
func (c *Codec) Decode(el xmlconfig.Element) (*Bookmark, error) {
	var entry entryXML
	if err := el.Decode(&entry); err != nil {
		return nil, err
	}
	if entry.Name == "" {
		return nil, errors.New("bookmark without name attribute")
	}

	active, err := el.Bool("enabled", true, c.words)
	if err != nil {
		// Keep the entry, but switched off
		c.log.Error("Erroneous config contains invalid value for \"enabled\"",
			zap.String("bookmark", entry.Name),
			zap.Error(err),
		)
	}

	return &Bookmark{
		Label:    entry.Name,
		Location: entry.Location,
		Active:   active,
	}, nil
}
