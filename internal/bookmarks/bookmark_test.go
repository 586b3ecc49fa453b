package bookmarks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

const sampleFile = `<?xml version="1.0" encoding="UTF-8"?>
<bookmarks>
	<bookmark name="Movies" enabled="yes">
		<location>/media/hdd/movie</location>
	</bookmark>
	<bookmark name="Music" enabled="no">
		<location>/media/hdd/music</location>
	</bookmark>
	<bookmark name="Photos" enabled="maybe">
		<location>/media/hdd/photos</location>
	</bookmark>
	<bookmark enabled="yes">
		<location>/media/hdd/nameless</location>
	</bookmark>
</bookmarks>
`

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		bookmark Bookmark
		wantErr  string
	}{
		{"valid", Bookmark{Label: "Movies", Location: "/media/hdd/movie"}, ""},
		{"empty name", Bookmark{Label: " ", Location: "/media"}, "name must not be empty"},
		{"empty location", Bookmark{Label: "Movies"}, "location must not be empty"},
		{"relative location", Bookmark{Label: "Movies", Location: "media"}, "must be an absolute path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.bookmark.Validate()
			if tt.wantErr == "" {
				if got != "" {
					t.Errorf("Validate() = %q, want no problem", got)
				}
				return
			}
			if !strings.Contains(got, tt.wantErr) {
				t.Errorf("Validate() = %q, want it to contain %q", got, tt.wantErr)
			}
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec(xmlconfig.DefaultBoolStrings, nil)
	in := []*Bookmark{
		{Label: "Movies & Series", Location: "/media/hdd/movie", Active: true},
		{Label: "Music", Location: "/media/<usb>/music", Active: false},
	}

	data, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	elements, err := xmlconfig.ParseDocument(data, EntryTag)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v\n%s", err, data)
	}
	if len(elements) != len(in) {
		t.Fatalf("Expected %d elements, got %d", len(in), len(elements))
	}

	for i, el := range elements {
		got, err := codec.Decode(el)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if *got != *in[i] {
			t.Errorf("Round trip = %+v, want %+v", *got, *in[i])
		}
	}
}

func TestCodecWritesConfiguredWords(t *testing.T) {
	codec := NewCodec(xmlconfig.BoolStrings{True: "true", False: "false"}, nil)

	data, err := codec.Encode([]*Bookmark{{Label: "Music", Location: "/m", Active: false}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(string(data), `<bookmark name="Music" enabled="false">`) {
		t.Errorf("Unexpected document:\n%s", data)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Error("Expected XML header")
	}
}

func TestNewSupportReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.xml")
	if err := os.WriteFile(path, []byte(sampleFile), 0644); err != nil {
		t.Fatalf("Failed to write sample: %v", err)
	}

	core, logs := observer.New(zap.DebugLevel)
	support := NewSupport(path, xmlconfig.DefaultBoolStrings, zap.New(core), xmlconfig.Hooks[*Bookmark]{})

	count, err := support.ReadXML(xmlconfig.ReadOptions[*Bookmark]{})
	if err != nil {
		t.Fatalf("ReadXML() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected 3 bookmarks, got %d", count)
	}

	photos, ok := support.Get("Photos")
	if !ok {
		t.Fatal("Expected Photos to be loaded")
	}
	if photos.Active {
		t.Error("Expected invalid enabled value to yield a disabled bookmark")
	}
	if logs.FilterMessageSnippet("invalid value").Len() != 1 {
		t.Error("Expected the invalid enabled value to be logged")
	}
	if logs.FilterMessage("Skipping malformed entry").Len() != 1 {
		t.Error("Expected the nameless bookmark to be skipped")
	}

	music, _ := support.Get("Music")
	if music.Active || music.Location != "/media/hdd/music" {
		t.Errorf("Unexpected Music bookmark %+v", *music)
	}
	if support.Nouns().Count(count) != "3 bookmarks" {
		t.Errorf("Count() = %q", support.Nouns().Count(count))
	}
}

func TestFormBuild(t *testing.T) {
	form := Form{Words: xmlconfig.DefaultBoolStrings}

	b, err := form.Build([]string{" Movies ", "/media/hdd/movie", "no"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := Bookmark{Label: "Movies", Location: "/media/hdd/movie", Active: false}
	if *b != want {
		t.Errorf("Build() = %+v, want %+v", *b, want)
	}

	if _, err := form.Build([]string{"Movies", "/m", "perhaps"}); err == nil {
		t.Error("Expected error for unknown enabled value")
	}
}

func TestFormFields(t *testing.T) {
	form := Form{}

	fields := form.Fields(nil, false)
	if len(fields) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(fields))
	}
	if fields[2].Value != "yes" {
		t.Errorf("Expected new bookmarks to default to enabled, got %q", fields[2].Value)
	}

	fields = form.Fields(&Bookmark{Label: "Music", Location: "/m", Active: false}, true)
	if fields[0].Value != "Music" || fields[1].Value != "/m" || fields[2].Value != "no" {
		t.Errorf("Unexpected field values %+v", fields)
	}

	// Fields and Build agree on order
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Value
	}
	b, err := form.Build(values)
	if err != nil || b.Label != "Music" || b.Active {
		t.Errorf("Build(Fields()) = %+v, %v", b, err)
	}
}
