// Package epg parses XMLTV listings documents and resolves configured channel
// names to XMLTV channel ids.
//
// The index keeps display names in insertion (document) order so every
// tie-break in the matcher is reproducible: iterating a plain map would give a
// different winner on every run.
package epg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Entry is one channel element from the listings document.
type Entry struct {
	ID          string
	DisplayName string
}

// Index maps display names to channel ids, preserving first-seen order.
type Index struct {
	names []string
	ids   map[string]string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]string)}
}

// Add records a display name → id pair. The first occurrence of a display
// name wins; later duplicates are dropped.
func (ix *Index) Add(name, id string) {
	if name == "" || id == "" {
		return
	}
	if _, ok := ix.ids[name]; ok {
		return
	}
	ix.names = append(ix.names, name)
	ix.ids[name] = id
}

// ID returns the channel id for an exact display name.
func (ix *Index) ID(name string) (string, bool) {
	id, ok := ix.ids[name]
	return id, ok
}

// Len returns the number of indexed display names.
func (ix *Index) Len() int { return len(ix.names) }

// Names returns the display names in insertion order. The slice is shared;
// callers must not mutate it.
func (ix *Index) Names() []string { return ix.names }

// BuildIndex parses an XMLTV listings document and indexes every
// channel-id/display-name pair. A channel element may carry several
// display-name nodes; each one maps to the element's id.
//
// Absent or malformed input never fails the run: whatever parsed before the
// error is kept, and an empty document yields an empty index.
func BuildIndex(text string) *Index {
	ix := NewIndex()
	if strings.TrimSpace(text) == "" {
		return ix
	}
	dec := xml.NewDecoder(strings.NewReader(text))
	type displayName struct {
		Text string `xml:",chardata"`
	}
	type chNode struct {
		ID           string        `xml:"id,attr"`
		DisplayNames []displayName `xml:"display-name"`
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF is the normal end; anything else truncates the index.
			if !errors.Is(err, io.EOF) {
				return ix
			}
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "channel" {
			continue
		}
		var node chNode
		if err := dec.DecodeElement(&node, &se); err != nil {
			return ix
		}
		id := strings.TrimSpace(node.ID)
		if id == "" {
			continue
		}
		for _, dn := range node.DisplayNames {
			ix.Add(strings.TrimSpace(dn.Text), id)
		}
	}
	return ix
}
