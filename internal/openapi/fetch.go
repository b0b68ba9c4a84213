package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/openbindings/httpie-oapi/internal/specstore"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single document fetch.
const DefaultTimeout = 10 * time.Second

// maxDocumentSize caps the response body read from a spec URL.
const maxDocumentSize = 32 << 20

// Kind classifies a fetch failure.
type Kind int

const (
	// KindUnreachable means no HTTP response was received.
	KindUnreachable Kind = iota + 1
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindParse means the body is not a usable OpenAPI 3.x JSON document.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindHTTPStatus:
		return "http status"
	case KindParse:
		return "parse error"
	default:
		return "unknown"
	}
}

// FetchError is returned by Fetcher.Fetch.
type FetchError struct {
	Kind     Kind
	URL      string
	Status   int
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: HTTP %d %s", e.URL, e.Status, http.StatusText(e.Status))
	case KindParse:
		if e.Location != "" {
			return fmt.Sprintf("parse %s (%s): %v", e.URL, e.Location, e.Err)
		}
		return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetcherOptions configures a Fetcher. Zero values select defaults.
type FetcherOptions struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
	Log       logrus.FieldLogger
}

// Fetcher downloads and converts OpenAPI documents.
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       logrus.FieldLogger
}

// NewFetcher returns a Fetcher. A caller-supplied client is used as is.
func NewFetcher(opts FetcherOptions) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Fetcher{client: client, userAgent: opts.UserAgent, log: log}
}

// Fetch downloads entry's document and converts it. It makes exactly one request.
func (f *Fetcher) Fetch(ctx context.Context, entry specstore.APIEntry) (*specstore.CachedSpec, error) {
	log := f.log.WithFields(logrus.Fields{"api": entry.Name, "url": entry.SpecURL})

	data, err := f.download(ctx, entry.SpecURL)
	if err != nil {
		log.WithError(err).Debug("fetch failed")
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		fe := &FetchError{Kind: KindParse, URL: entry.SpecURL, Err: err}
		var docErr *DocumentError
		if errors.As(err, &docErr) {
			fe.Location = docErr.Location
			fe.Err = docErr.Err
		}
		log.WithError(err).Debug("parse failed")
		return nil, fe
	}

	log.WithFields(logrus.Fields{
		"openapi": doc.Version,
		"paths":   len(doc.Paths),
		"size":    humanize.IBytes(uint64(len(data))),
	}).Debug("fetched document")

	return &specstore.CachedSpec{
		Owner:     entry.Name,
		FetchedAt: time.Now(),
		Paths:     doc.Paths,
	}, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{Kind: KindUnreachable, URL: rawURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &FetchError{Kind: KindUnreachable, URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindUnreachable, URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindUnreachable, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: KindHTTPStatus, URL: rawURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, &FetchError{Kind: KindUnreachable, URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) > maxDocumentSize {
		return nil, &FetchError{Kind: KindParse, URL: rawURL, Err: fmt.Errorf("document larger than %s", humanize.IBytes(maxDocumentSize))}
	}
	return data, nil
}
