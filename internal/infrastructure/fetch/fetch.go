package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsHarvester/internal/ports"
)

const maxRedirects = 10

// ErrorKind classifies fetch failures for the caller's skip/log decision.
type ErrorKind string

const (
	KindTimeout    ErrorKind = "timeout"
	KindStatus     ErrorKind = "status"
	KindConnection ErrorKind = "connection"
	KindRedirect   ErrorKind = "redirect"
)

// Error is the typed failure returned for any unsuccessful fetch.
type Error struct {
	Kind   ErrorKind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %s (%d)", e.URL, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Pacer enforces a minimum interval between requests to the same origin.
// It owns the last-request timestamp per origin; callers share one instance.
type Pacer struct {
	mu       sync.Mutex
	last     map[string]time.Time
	interval time.Duration
}

// NewPacer builds a pacer with the given minimum inter-request interval.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{last: map[string]time.Time{}, interval: interval}
}

// Wait blocks until the origin's interval has elapsed, then claims the slot.
func (p *Pacer) Wait(ctx context.Context, origin string) error {
	if p == nil || p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	due := p.last[origin].Add(p.interval)
	wait := due.Sub(now)
	if wait < 0 {
		wait = 0
	}
	p.last[origin] = now.Add(wait)
	p.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client performs paced HTTP GETs with a browser-like identity and parses
// responses into goquery documents. It never retries; retry policy belongs
// to the caller.
type Client struct {
	http      *http.Client
	pacer     *Pacer
	userAgent string
}

var _ ports.DocumentFetcher = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets redirect capping.
func NewClient(httpClient *http.Client, pacer *Pacer, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.CheckRedirect == nil {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		}
	}
	return &Client{http: httpClient, pacer: pacer, userAgent: userAgent}
}

var errTooManyRedirects = errors.New("too many redirects")

// Document fetches rawURL with the given timeout and parses the HTML body.
// All failures come back as *Error.
func (c *Client) Document(ctx context.Context, rawURL string, timeout time.Duration) (*goquery.Document, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() {
		return nil, &Error{Kind: KindConnection, URL: rawURL, Err: fmt.Errorf("not an absolute url")}
	}

	if err := c.pacer.Wait(ctx, parsed.Scheme+"://"+parsed.Host); err != nil {
		return nil, &Error{Kind: KindConnection, URL: rawURL, Err: err}
	}

	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindConnection, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindStatus, URL: rawURL, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindConnection, URL: rawURL, Err: fmt.Errorf("parse document: %w", err)}
	}

	return doc, nil
}

func classify(rawURL string, err error) *Error {
	switch {
	case errors.Is(err, errTooManyRedirects):
		return &Error{Kind: KindRedirect, URL: rawURL, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
	default:
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
		}
		return &Error{Kind: KindConnection, URL: rawURL, Err: err}
	}
}
