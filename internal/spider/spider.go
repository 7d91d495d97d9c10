// Package spider implements the web-crawling feature: fetch a page,
// extract its link hrefs, and keep the external https ones.
package spider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/playgroundlab/webstack/internal/fetch"
	"github.com/playgroundlab/webstack/internal/infrastructure/logging"
	"github.com/playgroundlab/webstack/internal/scrape"
	"github.com/playgroundlab/webstack/internal/shared/id"
)

// Result holds the outcome of a crawl.
type Result struct {
	ID       id.CrawlID          `json:"id"`
	URL      string              `json:"url"`
	Domain   string              `json:"domain"`
	Hrefs    []string            `json:"hrefs"`
	Count    int                 `json:"count"`
	Domains  map[string][]string `json:"domains,omitempty"`
	Duration time.Duration       `json:"duration_ns"`
}

// Service runs crawls through the shared outbound client.
type Service struct {
	client      *fetch.Client
	parser      *scrape.Parser
	logger      *logging.Logger
	concurrency int
	maxDepth    int
}

// New creates a spider service. maxDepth caps how deep Trace will go.
func New(client *fetch.Client, parser *scrape.Parser, logger *logging.Logger, concurrency, maxDepth int) *Service {
	if concurrency <= 0 {
		concurrency = 8
	}
	if maxDepth <= 0 {
		maxDepth = 2
	}
	return &Service{
		client:      client,
		parser:      parser,
		logger:      logger,
		concurrency: concurrency,
		maxDepth:    maxDepth,
	}
}

// ExtractDomain returns the scheme://host prefix of a URL.
func ExtractDomain(url string) string {
	start := strings.Index(url, "//")
	if start < 0 {
		return url
	}
	end := strings.Index(url[start+2:], "/")
	if end < 0 {
		return url
	}
	return url[:start+2+end]
}

// ValidateHref keeps hrefs that are https and leave the page's own domain.
func ValidateHref(href, domain string) bool {
	return strings.HasPrefix(href, "https") && !strings.HasPrefix(href, domain)
}

// Trace crawls a URL at the requested depth, clamped to the configured
// maximum. Depth 2 and beyond runs the deep two-level trace.
func (s *Service) Trace(ctx context.Context, url string, depth int) (*Result, error) {
	if depth > s.maxDepth {
		depth = s.maxDepth
	}
	if depth >= 2 {
		return s.CrawlDeep(ctx, url)
	}
	return s.Crawl(ctx, url)
}

// Crawl fetches a URL and extracts its outbound https links.
func (s *Service) Crawl(ctx context.Context, url string) (*Result, error) {
	start := time.Now()

	hrefs, err := s.fetchLinks(ctx, url)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:       id.NewCrawlID(),
		URL:      url,
		Domain:   ExtractDomain(url),
		Hrefs:    hrefs,
		Count:    len(hrefs),
		Duration: time.Since(start),
	}

	s.logger.Info("crawl complete",
		zap.String("crawl_id", result.ID.String()),
		zap.String("url", url),
		zap.Int("links", result.Count),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// CrawlDeep runs a two-level trace: the links of the submitted page, then
// the links of each of those pages, fetched concurrently. Per-link
// failures are logged and skipped.
func (s *Service) CrawlDeep(ctx context.Context, url string) (*Result, error) {
	result, err := s.Crawl(ctx, url)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	var mu sync.Mutex
	domains := make(map[string][]string, len(result.Hrefs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, href := range result.Hrefs {
		href := href
		g.Go(func() error {
			links, err := s.fetchLinks(gctx, href)
			if err != nil {
				s.logger.Warn("deep crawl link failed",
					zap.String("href", href),
					zap.Error(err),
				)
				return nil
			}

			mu.Lock()
			domains[ExtractDomain(href)] = links
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Domains = domains
	result.Duration += time.Since(start)
	return result, nil
}

// fetchLinks fetches one page and returns its filtered, deduplicated hrefs.
func (s *Service) fetchLinks(ctx context.Context, url string) ([]string, error) {
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	// An empty page has no links; it is not a parse failure.
	body := string(resp.Body)
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	doc, err := s.parser.Load(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	domain := ExtractDomain(url)

	var valid []string
	for _, href := range s.parser.Hrefs(doc) {
		if ValidateHref(href, domain) {
			valid = append(valid, href)
		}
	}
	return valid, nil
}
