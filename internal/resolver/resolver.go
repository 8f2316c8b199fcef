// Package resolver reconciles the configured channel list against the fetched
// sources: channel id from the EPG index (with default fallback), stream URL
// and logo from the primary catalog, and the fallback playlist as a secondary
// source when the primary has nothing.
package resolver

import (
	"log"

	"github.com/deglint/channel-sync/internal/catalog"
	"github.com/deglint/channel-sync/internal/config"
	"github.com/deglint/channel-sync/internal/epg"
	"github.com/deglint/channel-sync/internal/playlist"
)

// RunContext is the immutable per-run view of the fetched sources. It is
// built once and passed to every resolution step; no component keeps hidden
// cross-call state.
type RunContext struct {
	Catalog  []catalog.Entry
	EPG      *epg.Index
	Fallback string // raw fallback playlist text; empty when unavailable
}

// Result is the outcome for one configured channel. Success means a playable
// URL was found; an empty ChannelID is tolerated, a missing URL is not.
type Result struct {
	Name      string
	ChannelID string
	URL       string
	Logo      string
	Success   bool
}

// Channel converts a successful result into a playlist channel.
func (r Result) Channel() playlist.Channel {
	return playlist.Channel{Name: r.Name, ID: r.ChannelID, Logo: r.Logo, URL: r.URL}
}

// Resolve processes every configured channel in order and returns one result
// per channel. An individual channel failing never aborts the batch.
func Resolve(channels []config.Channel, rc *RunContext) []Result {
	results := make([]Result, 0, len(channels))
	for _, ch := range channels {
		results = append(results, resolveOne(ch, rc))
	}
	return results
}

func resolveOne(ch config.Channel, rc *RunContext) Result {
	id, ok := rc.EPG.Resolve(ch.EPGMatch)
	if !ok {
		id = ch.DefaultID
		if id != "" {
			log.Printf("sync: channel %q: no EPG match for %q, using default id %q", ch.Name, ch.EPGMatch, id)
		}
	}

	url, logo := catalog.Lookup(ch.JSONMatch, rc.Catalog)
	url, logo = noNull(url), noNull(logo)

	if url == "" && ch.BackupSource {
		burl, blogo := playlist.FallbackLookup(ch.BackupMatch, rc.Fallback)
		burl, blogo = noNull(burl), noNull(blogo)
		if burl != "" {
			url = burl
			if logo == "" {
				logo = blogo
			}
			log.Printf("sync: channel %q: primary catalog empty, adopted backup URL", ch.Name)
		}
	}

	if url == "" {
		log.Printf("sync: channel %q: no playable URL from any source", ch.Name)
		return Result{Name: ch.Name, ChannelID: id}
	}
	return Result{Name: ch.Name, ChannelID: id, URL: url, Logo: logo, Success: true}
}

// Successful counts results with a playable URL.
func Successful(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}

// Channels returns the playlist channels for the successful results, in order.
func Channels(results []Result) []playlist.Channel {
	out := make([]playlist.Channel, 0, len(results))
	for _, r := range results {
		if r.Success {
			out = append(out, r.Channel())
		}
	}
	return out
}

// noNull treats the literal string "null" as absent. The primary catalog
// serializes missing fields that way.
func noNull(s string) string {
	if s == "null" {
		return ""
	}
	return s
}
