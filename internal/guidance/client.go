package guidance

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// Retry policy for transient failures: 3 attempts total with
// exponentially growing delays (500ms, then 1s by default).
const (
	defaultMaxAttempts = 3
	defaultBackoffBase = 500 * time.Millisecond
)

// Result is one delivered guidance outcome. ID matches the value
// returned by Query so the state manager can discard stale results.
// On total failure Err records the cause and Response carries the
// static fallback text, so callers never need a special error path.
type Result struct {
	ID        string
	Kind      Kind
	Response  Response
	Err       error
	FromCache bool
	Fallback  bool
}

type queuedRequest struct {
	id  string
	req Request
}

// Client dispatches guidance requests to a worker goroutine and returns
// results through a channel the control loop polls. It never blocks the
// caller on network activity.
type Client struct {
	provider Provider
	cache    *responseCache

	requests chan queuedRequest
	results  chan Result
	closed   chan struct{}

	maxAttempts int
	backoffBase time.Duration
	sleep       func(time.Duration)

	disabled bool
}

// Option configures a Client.
type Option func(*Client)

// WithBackoff overrides the retry schedule (primarily for tests).
func WithBackoff(attempts int, base time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = attempts
		c.backoffBase = base
	}
}

// WithCacheCapacity overrides the response cache size.
func WithCacheCapacity(capacity int) Option {
	return func(c *Client) {
		c.cache = newResponseCache(capacity)
	}
}

// NewClient creates a Client over the provider and starts its worker.
func NewClient(provider Provider, opts ...Option) *Client {
	c := &Client{
		provider:    provider,
		cache:       newResponseCache(defaultCacheCapacity),
		requests:    make(chan queuedRequest, 16),
		results:     make(chan Result, 16),
		closed:      make(chan struct{}),
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.worker()
	return c
}

// NewDisabledClient creates a Client that answers every query with the
// per-kind fallback message and performs no network activity.
func NewDisabledClient() *Client {
	c := &Client{
		results:  make(chan Result, 16),
		closed:   make(chan struct{}),
		disabled: true,
	}
	return c
}

// Enabled reports whether the client performs real queries.
func (c *Client) Enabled() bool {
	return !c.disabled
}

// Query enqueues a request and returns its identity immediately. The
// matching Result arrives later on Results.
func (c *Client) Query(req Request) string {
	id := ulid.Make().String()
	if c.disabled {
		c.deliver(Result{
			ID:       id,
			Kind:     req.Kind,
			Response: Response{Text: Fallback(req.Kind)},
			Err:      ErrDisabled,
			Fallback: true,
		})
		return id
	}
	c.requests <- queuedRequest{id: id, req: req}
	return id
}

// Results is the channel the control loop polls for delivered outcomes.
func (c *Client) Results() <-chan Result {
	return c.results
}

// Close stops the worker. Pending requests are abandoned; their callers
// receive nothing and treat the outcome as superseded.
func (c *Client) Close() {
	close(c.closed)
}

func (c *Client) deliver(res Result) {
	select {
	case c.results <- res:
	case <-c.closed:
	}
}

func (c *Client) worker() {
	for {
		select {
		case <-c.closed:
			return
		case q := <-c.requests:
			c.deliver(c.execute(q))
		}
	}
}

// execute answers one request: cache first, then the provider with
// retry-on-transient, and the static fallback on total failure.
func (c *Client) execute(q queuedRequest) Result {
	key := cacheKey(q.req)
	if resp, ok := c.cache.get(key); ok {
		return Result{ID: q.id, Kind: q.req.Kind, Response: resp, FromCache: true}
	}

	text, err := c.queryWithRetry(q.req)
	if err != nil {
		return Result{
			ID:       q.id,
			Kind:     q.req.Kind,
			Response: Response{Text: Fallback(q.req.Kind)},
			Err:      err,
			Fallback: true,
		}
	}

	resp := Response{Text: text, Suggestions: parseSuggestions(text)}
	c.cache.put(key, resp, ttlFor(q.req.Kind))
	return Result{ID: q.id, Kind: q.req.Kind, Response: resp}
}

// queryWithRetry retries transient failures with exponential backoff.
// Permanent failures surface immediately.
func (c *Client) queryWithRetry(req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase << (attempt - 1)
			select {
			case <-c.closed:
				return "", lastErr
			default:
			}
			c.sleep(delay)
		}

		text, err := c.provider.Query(context.Background(), req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if errors.Is(err, ErrPermanent) {
			return "", err
		}
	}
	return "", lastErr
}
