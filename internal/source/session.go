package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
)

// Session defaults. The request timeout is deliberately short: a slow or
// missing page degrades to the adapter's fallback path instead of stalling
// the run.
const (
	defaultRequestTimeout = 10 * time.Second
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultAcceptLanguage = "vi-VN,vi;q=0.9,en-US;q=0.8,en;q=0.7"
)

// SessionConfig configures the shared fetch session.
type SessionConfig struct {
	UserAgent      string        `yaml:"user_agent"`
	AcceptLanguage string        `yaml:"accept_language"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// SetDefaults applies default values to the config if not set.
func (c *SessionConfig) SetDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = defaultAcceptLanguage
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
}

// Session is the browser-like fetch session one orchestrator run owns.
// It carries a realistic request identity (user agent, language headers)
// to reduce trivial bot-blocking, and is closed unconditionally when the
// run ends.
type Session struct {
	collector      *colly.Collector
	acceptLanguage string
	logger         logger.Logger
	closed         bool
}

// NewSession opens a fetch session bound to ctx.
func NewSession(ctx context.Context, cfg SessionConfig, log logger.Logger) *Session {
	cfg.SetDefaults()

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(cfg.RequestTimeout)

	return &Session{collector: c, acceptLanguage: cfg.AcceptLanguage, logger: log}
}

// Document fetches pageURL and returns the parsed DOM.
func (s *Session) Document(pageURL string) (*goquery.Document, error) {
	if s.closed {
		return nil, fmt.Errorf("session closed")
	}

	var doc *goquery.Document
	var parseErr error

	// Clone resets request callbacks along with the response ones, so the
	// language header has to be attached here, not in NewSession.
	c := s.collector.Clone()
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", s.acceptLanguage)
	})
	c.OnResponse(func(r *colly.Response) {
		doc, parseErr = goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", pageURL, err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, parseErr)
	}
	if doc == nil {
		return nil, fmt.Errorf("no response from %s", pageURL)
	}
	return doc, nil
}

// Resolve resolves a possibly-relative href against a base URL.
func (s *Session) Resolve(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(refURL).String()
}

// Close releases the session. Fetching after Close fails. Idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.collector.Wait()
}
