// Package userclient asks the user registry whether a user exists.
//
// Every lookup ends in exactly one of four outcomes. Transport failures
// (refused connection, DNS, timeout) are kept apart from responses that
// carry an error status, because callers answer them differently.
package userclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultTimeout = 5 * time.Second
	serviceName    = "user-service"
	headerReqID    = "X-Request-ID"
)

var (
	// ErrUserMissing: the registry answered 404.
	ErrUserMissing = errors.New("user does not exist")
	// ErrUpstream: the registry answered with another non-2xx status.
	ErrUpstream = errors.New("user service returned an error")
	// ErrUnavailable: no response was received.
	ErrUnavailable = errors.New("user service unavailable")
)

// StatusError carries the status code of an unexpected registry response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrUpstream, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrUpstream }

type Outcome int

const (
	Valid Outcome = iota
	UserMissing
	UpstreamError
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case UserMissing:
		return "user_missing"
	case UpstreamError:
		return "upstream_error"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// OutcomeOf maps an EnsureUserExists result back to its outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Valid
	case errors.Is(err, ErrUserMissing):
		return UserMissing
	case errors.Is(err, ErrUpstream):
		return UpstreamError
	default:
		return Unavailable
	}
}

type CallObserver interface {
	ObserveCall(service, status string, d time.Duration)
}

type Client struct {
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	observer  CallObserver
	requestID func(context.Context) string
	logger    *log.Entry
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithObserver(o CallObserver) Option {
	return func(c *Client) { c.observer = o }
}

// WithRequestID forwards the id returned by fn as X-Request-ID.
func WithRequestID(fn func(context.Context) string) Option {
	return func(c *Client) { c.requestID = fn }
}

func WithLogger(l *log.Entry) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client for the registry at baseURL. A non-positive timeout
// falls back to DefaultTimeout; the lookup is always time-bounded.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		logger:  log.WithField("component", "userclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Timeout() time.Duration { return c.timeout }

// EnsureUserExists issues GET {base}/users/{id}. It returns nil,
// ErrUserMissing, a *StatusError (matching ErrUpstream) or an error
// wrapping ErrUnavailable. No retries are made.
func (c *Client) EnsureUserExists(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logger := c.logger.WithField("user_id", userID)
	target := c.baseURL + "/users/" + url.PathEscape(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.requestID != nil {
		if id := c.requestID(ctx); id != "" {
			req.Header.Set(headerReqID, id)
		}
	}

	logger.Info("validating user with user-service")
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.observe("error", elapsed)
		logger.WithError(err).Error("user service unavailable")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	c.observe(strconv.Itoa(resp.StatusCode), elapsed)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		logger.Warn("user not found")
		return ErrUserMissing
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		logger.WithField("status", resp.StatusCode).Error("user service returned error")
		return &StatusError{Code: resp.StatusCode}
	}
	logger.Info("user validated")
	return nil
}

func (c *Client) observe(status string, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveCall(serviceName, status, d)
	}
}
