// Command channel-sync reconciles a declarative YAML channel list against a
// primary JSON catalog and an XMLTV listings document (plus an optional
// fallback playlist) and rebuilds a canonical M3U playlist file.
//
// Exit status is 0 when at least one channel resolved and the output was
// written; 1 for a missing/unparsable config, zero successful channels (the
// output file is left untouched) or a write failure.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/deglint/channel-sync/internal/config"
	"github.com/deglint/channel-sync/internal/epg"
	"github.com/deglint/channel-sync/internal/fetch"
	"github.com/deglint/channel-sync/internal/playlist"
	"github.com/deglint/channel-sync/internal/resolver"
)

func main() {
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("[channel-sync] ")

	configPath := flag.String("config", "", "Channels YAML path (default: channels-config.yml, then .github/channels-config.yml)")
	outputPath := flag.String("output", "", "Output playlist path (default: CHANNEL_SYNC_OUTPUT or kr.m3u)")
	merge := flag.Bool("merge", false, "Merge into the existing playlist instead of rebuilding it (preserves entries outside the configured set)")
	dryRun := flag.Bool("dry-run", false, "Resolve and report, but do not write the output file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}

	os.Exit(sync(context.Background(), cfg, *merge, *dryRun))
}

// sync runs one full reconciliation and returns the process exit code.
func sync(ctx context.Context, cfg *config.Config, merge, dryRun bool) int {
	log.Printf("loaded %d channel configs", len(cfg.Channels))

	sources := fetch.New(cfg.FetchTimeout).Sources(ctx, cfg)
	rc := &resolver.RunContext{
		Catalog:  sources.Catalog,
		EPG:      epg.BuildIndex(sources.EPGText),
		Fallback: sources.Fallback,
	}
	results := resolver.Resolve(cfg.Channels, rc)

	ok := resolver.Successful(results)
	log.Printf("resolved %d/%d channels", ok, len(results))
	if ok == 0 {
		log.Printf("no channel resolved; leaving %s untouched", cfg.OutputPath)
		return 1
	}
	if dryRun {
		log.Printf("dry run; not writing %s", cfg.OutputPath)
		return 0
	}

	channels := resolver.Channels(results)
	var doc string
	if merge {
		existing, err := os.ReadFile(cfg.OutputPath)
		if err != nil && !os.IsNotExist(err) {
			log.Printf("read %s: %v", cfg.OutputPath, err)
			return 1
		}
		doc = playlist.Merge(string(existing), channels)
	} else {
		doc = playlist.Build(channels)
	}

	if err := os.WriteFile(cfg.OutputPath, []byte(doc), 0o644); err != nil {
		log.Printf("write %s: %v", cfg.OutputPath, err)
		return 1
	}
	log.Printf("wrote %s (%d channels)", cfg.OutputPath, len(channels))
	return 0
}
