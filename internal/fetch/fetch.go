// Package fetch retrieves the external source documents: the primary catalog
// JSON, the XMLTV listings and the optional fallback playlist. Every retrieval
// is bounded by the configured timeout and failure-isolated: a failed fetch
// degrades that source to empty content instead of aborting the run.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/deglint/channel-sync/internal/catalog"
	"github.com/deglint/channel-sync/internal/config"
	"github.com/deglint/channel-sync/internal/httpclient"
)

const userAgent = "channel-sync/1.0"

// maxBodySize caps a single source document. The catalog and listings are a
// few hundred KiB in practice; anything past this is a misbehaving source.
const maxBodySize = 32 << 20

// Sources holds the fetched documents, already degraded where a fetch failed:
// an empty catalog, empty listings text, empty fallback text.
type Sources struct {
	Catalog  []catalog.Entry
	EPGText  string
	Fallback string
}

// Client fetches source documents with a shared timeout and a per-run rate
// limiter. The sources live on one host; the limiter keeps the three requests
// from hammering it in a tight burst.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// New returns a Client whose requests are each bounded by timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}
	return &Client{
		http:    httpclient.WithTimeout(timeout),
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
}

// Sources fetches all configured source documents. The fallback document is
// only retrieved when some channel asks for it. Each failure is logged and
// leaves that source empty.
func (c *Client) Sources(ctx context.Context, cfg *config.Config) *Sources {
	s := &Sources{}

	body, err := c.get(ctx, cfg.CatalogURL)
	if err != nil {
		log.Printf("fetch: catalog: %v (continuing with empty catalog)", err)
	} else if s.Catalog, err = catalog.Parse(body); err != nil {
		log.Printf("fetch: catalog: parse: %v (continuing with empty catalog)", err)
		s.Catalog = nil
	} else {
		log.Printf("fetch: catalog: %d entries", len(s.Catalog))
	}

	body, err = c.get(ctx, cfg.EPGURL)
	if err != nil {
		log.Printf("fetch: listings: %v (continuing with empty listings)", err)
	} else {
		s.EPGText = string(body)
		log.Printf("fetch: listings: %d bytes", len(body))
	}

	if !cfg.NeedBackup() {
		log.Printf("fetch: no channel wants the backup source, skipping")
		return s
	}
	body, err = c.get(ctx, cfg.BackupURL)
	if err != nil {
		log.Printf("fetch: backup: %v (continuing without backup)", err)
	} else {
		s.Fallback = string(body)
		log.Printf("fetch: backup: %d bytes", len(body))
	}
	return s
}

// get performs one GET with the shared limiter, UA header and brotli-aware
// response decoding.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Encoding", "br")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errStatusCode(resp.StatusCode)
	}
	var r io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		r = brotli.NewReader(resp.Body)
	}
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

type errStatusCode int

func (e errStatusCode) Error() string {
	return "unexpected status: " + strconv.Itoa(int(e))
}
