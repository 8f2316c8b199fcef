// Package playlist parses, builds and merges M3U playlist documents.
//
// A document is a #EXTM3U header followed by (descriptor, url) pairs: a
// "#EXTINF:" line carrying display attributes and a trailing comma-separated
// label, then the stream URL on the next non-empty line. The invariant
// maintained by every builder in this package is that each label appears at
// most once.
package playlist

import (
	"bufio"
	"strings"
)

// Header is the fixed first line of every playlist document.
const Header = "#EXTM3U"

const descriptorPrefix = "#EXTINF:"

// Entry is one descriptor/url pair from a playlist document.
type Entry struct {
	Extinf string // full descriptor line, including the #EXTINF: prefix
	URL    string
}

// Name returns the entry's label: the text after the last comma of the
// descriptor line.
func (e Entry) Name() string {
	return extinfName(e.Extinf)
}

func extinfName(line string) string {
	if i := strings.LastIndex(line, ","); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}

// attr extracts a quoted key="value" attribute from a descriptor line.
func attr(line, key string) string {
	prefix := key + `="`
	i := strings.Index(line, prefix)
	if i < 0 {
		return ""
	}
	rest := line[i+len(prefix):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return ""
	}
	return rest[:j]
}

// Parse scans a playlist document into descriptor/url pairs. Descriptor lines
// with no following URL line are dropped; duplicate labels keep the first
// occurrence. Comment and header lines between pairs are ignored.
func Parse(text string) []Entry {
	var entries []Entry
	seen := make(map[string]bool)
	var pending string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, descriptorPrefix) {
			pending = line
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if pending != "" {
			name := extinfName(pending)
			if name == "" || !seen[name] {
				entries = append(entries, Entry{Extinf: pending, URL: line})
				if name != "" {
					seen[name] = true
				}
			}
			pending = ""
		}
	}
	return entries
}

// FallbackLookup scans a playlist-formatted document for the first descriptor
// line containing match as a substring. The URL is the next non-empty line;
// the logo comes from the descriptor's tvg-logo attribute when present.
func FallbackLookup(match, text string) (url, logo string) {
	if match == "" || text == "" {
		return "", ""
	}
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, descriptorPrefix) || !strings.Contains(line, match) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			return next, attr(line, "tvg-logo")
		}
		return "", ""
	}
	return "", ""
}

// Channel is one resolved channel ready to be written out.
type Channel struct {
	Name string
	ID   string // tvg-id; may be empty
	Logo string // tvg-logo; omitted from the descriptor when empty
	URL  string
}

// Extinf formats the channel's descriptor line. The tvg-id attribute is
// always present, even when empty; tvg-logo only when a logo is known.
func (c Channel) Extinf() string {
	var b strings.Builder
	b.WriteString(descriptorPrefix)
	b.WriteString(`-1 tvg-id="`)
	b.WriteString(c.ID)
	b.WriteString(`"`)
	if c.Logo != "" {
		b.WriteString(` tvg-logo="`)
		b.WriteString(c.Logo)
		b.WriteString(`"`)
	}
	b.WriteString(",")
	b.WriteString(c.Name)
	return b.String()
}

// Build produces a full playlist document from scratch: header, then one pair
// per channel in the order given. Deterministic rebuild is the preferred
// reconciliation mode; the output order is exactly the configuration order.
func Build(channels []Channel) string {
	entries := make([]Entry, 0, len(channels))
	seen := make(map[string]bool, len(channels))
	for _, c := range channels {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		entries = append(entries, Entry{Extinf: c.Extinf(), URL: c.URL})
	}
	return render(entries)
}

// Merge reconciles channels into an existing document: pairs whose label
// matches a channel are replaced in place, the rest are appended at the end.
// Existing pairs outside the channel set (manual edits) are preserved. The
// parse step already drops duplicate labels, and a final dedup pass keeps the
// uniqueness invariant even if an update introduces one.
func Merge(existing string, channels []Channel) string {
	entries := Parse(existing)
	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		if n := e.Name(); n != "" {
			if _, ok := byName[n]; !ok {
				byName[n] = i
			}
		}
	}
	for _, c := range channels {
		if i, ok := byName[c.Name]; ok {
			entries[i] = Entry{Extinf: c.Extinf(), URL: c.URL}
			continue
		}
		byName[c.Name] = len(entries)
		entries = append(entries, Entry{Extinf: c.Extinf(), URL: c.URL})
	}
	return render(dedup(entries))
}

// Dedup rewrites a document keeping only the first pair per label.
func Dedup(text string) string {
	return render(dedup(Parse(text)))
}

func dedup(entries []Entry) []Entry {
	out := entries[:0]
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name != "" && seen[name] {
			continue
		}
		if name != "" {
			seen[name] = true
		}
		out = append(out, e)
	}
	return out
}

func render(entries []Entry) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(e.Extinf)
		b.WriteString("\n")
		b.WriteString(e.URL)
		b.WriteString("\n")
	}
	return b.String()
}
