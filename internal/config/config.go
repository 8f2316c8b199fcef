// Package config loads the run configuration: the declarative channel list
// from a YAML file, plus source URLs, timeout and output path from the
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Default source endpoints. Each can be overridden via environment.
const (
	defaultCatalogURL = "https://raw.githubusercontent.com/kenpark76/kenpark76.github.io/main/koreatv.json"
	defaultEPGURL     = "https://raw.githubusercontent.com/kenpark76/kenpark76.github.io/main/koreatvEPG.xml"
	defaultBackupURL  = "https://raw.githubusercontent.com/iptv-org/iptv/master/streams/kr.m3u"

	defaultOutputPath   = "kr.m3u"
	defaultFetchTimeout = 10 * time.Second
)

// defaultConfigPaths are probed in order when no explicit path is given.
var defaultConfigPaths = []string{
	"channels-config.yml",
	".github/channels-config.yml",
}

// Channel is one configured channel. Name is the unique display name and the
// output order follows the order channels appear in the file.
type Channel struct {
	Name         string `yaml:"name"`
	JSONMatch    string `yaml:"json_match"`
	EPGMatch     string `yaml:"epg_match"`
	DefaultID    string `yaml:"default_id"`
	BackupSource bool   `yaml:"backup_source"`
	BackupMatch  string `yaml:"backup_match"`
}

// Config holds everything a single sync run needs.
type Config struct {
	Channels []Channel

	CatalogURL string
	EPGURL     string
	BackupURL  string

	OutputPath   string
	FetchTimeout time.Duration
}

type channelsFile struct {
	Channels []Channel `yaml:"channels"`
}

// Load reads the channels file and applies environment overrides. When path
// is empty the default locations are probed in order; a missing or unparsable
// file is a fatal configuration error.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, p := range defaultConfigPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("config: no channels file found (tried %v)", defaultConfigPaths)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cf channelsFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	for i := range cf.Channels {
		if cf.Channels[i].BackupMatch == "" {
			cf.Channels[i].BackupMatch = cf.Channels[i].JSONMatch
		}
	}

	c := &Config{
		Channels:     cf.Channels,
		CatalogURL:   getEnv("CHANNEL_SYNC_CATALOG_URL", defaultCatalogURL),
		EPGURL:       getEnv("CHANNEL_SYNC_EPG_URL", defaultEPGURL),
		BackupURL:    getEnv("CHANNEL_SYNC_BACKUP_URL", defaultBackupURL),
		OutputPath:   getEnv("CHANNEL_SYNC_OUTPUT", defaultOutputPath),
		FetchTimeout: getEnvDuration("CHANNEL_SYNC_FETCH_TIMEOUT", defaultFetchTimeout),
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	return c, nil
}

// NeedBackup reports whether any channel wants the fallback document. When
// false the backup source is not fetched at all.
func (c *Config) NeedBackup() bool {
	for _, ch := range c.Channels {
		if ch.BackupSource {
			return true
		}
	}
	return false
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
