// Package xmlconfig keeps a collection of user-editable config objects in sync
// with an XML file.
//
// A Support instance is bound to one canonical file and one entry element name.
// It holds the objects in an in-memory Registry keyed by Object.Key and
// translates them to and from XML through a Codec supplied by the caller, so the
// package never dictates a schema.
//
// # Reading
//
// ReadXML parses the canonical file only when its modification time changed
// since the last read. Invalidate forces the next read to parse. Entries the
// codec rejects are logged and skipped; a malformed document leaves the
// registry untouched.
//
//	count, err := support.ReadXML(xmlconfig.ReadOptions[*Bookmark]{})
//	switch {
//	case errors.Is(err, xmlconfig.ErrNoData):
//	    // nothing stored yet
//	case err != nil:
//	    // count == xmlconfig.ReadFailed
//	}
//
// # Writing
//
// WriteXML writes the whole registry (or an explicit subset) through a
// temporary file and a rename. While an overview screen is open it holds the
// write-forbidden lock and writes to the canonical file are refused unless
// forced.
//
// # Editing
//
// Adds and edits are two-phase: BeginEdit returns an EditSession, an editor
// produces an EditResult (Committed or Cancelled), and Finish commits it. An
// edit that changes the key removes the old entry. AddObject runs the same
// protocol through an Editor callback.
//
// # Importing
//
// BeginImport returns an ImportSession that asks at most two questions (keep
// existing objects? replace colliding ones?) before Apply merges the objects.
// Importing the same list twice with the same answers yields the same registry.
//
// # Concurrency
//
// Support is not safe for concurrent use. It is driven from a single UI event
// loop; the write-forbidden flag is the only locking it needs.
package xmlconfig
