// Package fetch is the HTTP layer shared by every scraper and the geocoder.
//
// Each request is classified into one of four outcomes. Only transient
// failures (timeouts, connection errors, 408, 429 and 5xx) are retried, with
// a bounded, jittered exponential backoff. Not-found and permanent failures
// return immediately so callers can tell "this page does not exist" apart
// from "the site is blocking us" and "the site is flaky right now".
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Status is the outcome class of a fetch.
type Status int

const (
	OK Status = iota
	NotFound
	TransientFailure
	PermanentFailure
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case NotFound:
		return "not_found"
	case TransientFailure:
		return "transient_failure"
	case PermanentFailure:
		return "permanent_failure"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

var (
	// ErrNotFound is matched by errors for 404 and 410 responses.
	ErrNotFound = errors.New("not found")
	// ErrPermanent is matched by errors that retrying cannot fix (403, 400, bad URLs).
	ErrPermanent = errors.New("permanent failure")
	// ErrTransient is matched by errors that were still failing when retries ran out.
	ErrTransient = errors.New("transient failure")
)

// Error describes a failed fetch.
type Error struct {
	URL        string
	Status     Status
	StatusCode int
	Attempts   int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the sentinel of the error's class.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == NotFound
	case ErrPermanent:
		return e.Status == PermanentFailure
	case ErrTransient:
		return e.Status == TransientFailure
	}
	return false
}

// Classify maps an HTTP status code and transport error to a Status.
func Classify(statusCode int, err error) Status {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return PermanentFailure
		}
		return TransientFailure
	}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return OK
	case statusCode == http.StatusNotFound, statusCode == http.StatusGone:
		return NotFound
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusTooManyRequests:
		return TransientFailure
	case statusCode >= 500:
		return TransientFailure
	}
	return PermanentFailure
}

// StatusOf reports the class of an error returned by this package.
// A nil error is OK; foreign errors are treated as transient.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	var ferr *Error
	if errors.As(err, &ferr) {
		return ferr.Status
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return PermanentFailure
	}
	return TransientFailure
}

// Page is a successfully fetched response.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
	Attempts   int
}

// Fetcher issues GET requests with politeness delay and retries.
type Fetcher struct {
	client     *resty.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	jitter     float64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// UserAgent sets the User-Agent header.
func UserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.client.SetHeader("User-Agent", ua)
		}
	}
}

// AcceptLanguage sets the Accept-Language header.
func AcceptLanguage(lang string) Option {
	return func(f *Fetcher) {
		if lang != "" {
			f.client.SetHeader("Accept-Language", lang)
		}
	}
}

// Timeout bounds each individual attempt.
func Timeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.SetTimeout(d)
		}
	}
}

// errThrottled wraps a rate limiter wait that could not complete.
var errThrottled = errors.New("waiting for request slot")

// Delay is the minimum spacing between consecutive requests, retries
// included. A non-positive d disables it.
func Delay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d <= 0 {
			return
		}
		limiter := rate.NewLimiter(rate.Every(d), 1)
		f.client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if err := limiter.Wait(req.Context()); err != nil {
				return fmt.Errorf("%w: %w", errThrottled, err)
			}
			return nil
		})
	}
}

// Retries sets how many times a transient failure is retried and the backoff shape.
// jitter is the randomization factor in [0, 1].
func Retries(max int, base, maxDelay time.Duration, jitter float64) Option {
	return func(f *Fetcher) {
		if max >= 0 {
			f.maxRetries = max
		}
		if base > 0 {
			f.baseDelay = base
		}
		if maxDelay > 0 {
			f.maxDelay = maxDelay
		}
		if jitter >= 0 && jitter <= 1 {
			f.jitter = jitter
		}
	}
}

// Transport replaces the underlying round tripper, mostly for tests.
func Transport(rt http.RoundTripper) Option {
	return func(f *Fetcher) { f.client.SetTransport(rt) }
}

// New creates a Fetcher. Defaults: 3 retries from 2s, capped at 30s, 50% jitter,
// no politeness delay.
func New(options ...Option) *Fetcher {
	f := &Fetcher{
		client:     resty.New(),
		maxRetries: 3,
		baseDelay:  2 * time.Second,
		maxDelay:   30 * time.Second,
		jitter:     0.5,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *Fetcher) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = f.baseDelay
	eb.MaxInterval = f.maxDelay
	eb.RandomizationFactor = f.jitter
	eb.Multiplier = 2
	eb.MaxElapsedTime = 0
	eb.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(f.maxRetries)), ctx)
}

// Get fetches rawURL.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	return f.get(ctx, rawURL, nil)
}

func (f *Fetcher) get(ctx context.Context, rawURL string, query url.Values) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = errors.New("missing scheme or host")
		}
		return nil, &Error{URL: rawURL, Status: PermanentFailure, Err: err}
	}

	page := &Page{URL: rawURL}
	var lastErr *Error

	op := func() error {
		page.Attempts++

		req := f.client.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParamsFromValues(query)
		}
		log.Debug().Str("url", rawURL).Int("attempt", page.Attempts).Msg("fetching")
		resp, err := req.Get(rawURL)

		code := 0
		if resp != nil {
			code = resp.StatusCode()
		}
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, errThrottled) {
			// The next slot lies past the context deadline.
			return backoff.Permanent(&Error{URL: rawURL, Status: PermanentFailure, Attempts: page.Attempts, Err: err})
		}

		status := Classify(code, err)
		if status == OK {
			page.StatusCode = code
			page.Body = resp.Body()
			return nil
		}

		lastErr = &Error{URL: rawURL, Status: status, StatusCode: code, Attempts: page.Attempts, Err: err}
		switch status {
		case NotFound:
			return backoff.Permanent(lastErr)
		case PermanentFailure:
			if code == http.StatusForbidden {
				log.Warn().Str("url", rawURL).Msg("access forbidden, please check your headers or proxy settings")
			}
			return backoff.Permanent(lastErr)
		}
		return lastErr
	}

	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("transient fetch failure, retrying")
	}

	if err := backoff.RetryNotify(op, f.newBackOff(ctx), notify); err != nil {
		if lastErr != nil && errors.Is(err, lastErr) {
			lastErr.Attempts = page.Attempts
			return page, lastErr
		}
		return page, err
	}
	return page, nil
}

// Document fetches rawURL and parses it as HTML.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	page, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	return doc, nil
}

// GetJSON fetches rawURL with the given query and decodes the JSON body into out.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	page, err := f.get(ctx, rawURL, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(page.Body, out); err != nil {
		return &Error{URL: rawURL, Status: PermanentFailure, StatusCode: page.StatusCode, Attempts: page.Attempts, Err: err}
	}
	return nil
}
