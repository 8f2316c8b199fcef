// Package catalog holds the primary channel catalog: a JSON array of channel
// records mapping display names to stream URLs and logos. Entries are matched
// by exact name equality only; fuzzy resolution happens against the EPG index,
// not here.
package catalog

import "encoding/json"

// Entry is one record from the primary catalog JSON.
type Entry struct {
	Name string   `json:"name"`
	URIs []string `json:"uris,omitempty"`
	URL  string   `json:"url,omitempty"`
	Logo string   `json:"logo,omitempty"`
}

// StreamURL returns the entry's playable URL: the first of URIs when present,
// otherwise the direct URL field.
func (e Entry) StreamURL() string {
	if len(e.URIs) > 0 {
		return e.URIs[0]
	}
	return e.URL
}

// Parse decodes a catalog JSON document. A nil or empty document yields an
// empty catalog without error so a failed fetch degrades to "nothing found".
func Parse(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Lookup scans entries in order for the first exact name match and returns its
// stream URL and logo. Returns ("", "") when the catalog is empty or no entry
// matches.
func Lookup(name string, entries []Entry) (url, logo string) {
	for _, e := range entries {
		if e.Name == name {
			return e.StreamURL(), e.Logo
		}
	}
	return "", ""
}
