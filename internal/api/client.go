// Package api fetches Bills of Mortality data from the remote read-only API.
// Identical concurrent requests share one round trip, successful responses
// are cached by URL and every request can be cancelled.
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"bom-dashboard/internal/assert"
	"bom-dashboard/internal/cache"
	"bom-dashboard/internal/components/telemetry"
	"bom-dashboard/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
)

const DefaultBaseURL = "https://data.chnm.org/bom"

const (
	report_client_fetch_data = "client.fetch-data"
	report_client_cancel     = "client.cancel"
	report_client_dump       = "client.dump"
)

var tracer = otel.Tracer("bom-dashboard/internal/api")
var meter = otel.Meter("bom-dashboard/internal/api")
var requestCounter, _ = meter.Int64Counter("api.requests")
var cacheHitCounter, _ = meter.Int64Counter("api.cache_hits")
var dedupCounter, _ = meter.Int64Counter("api.deduplicated")

type Options struct {
	BaseURL string
	// Timeout bounds a single HTTP request, 0 disables it.
	Timeout time.Duration
	// TTL is how long responses stay cached, 0 keeps them until cleared.
	TTL       time.Duration
	Cache     *cache.Store[Payload]
	Telemetry telemetry.API
	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
	// Dump receives every raw HTTP exchange when set.
	Dump restyutil.Output
}

// request is the record of one in flight fetch.
type request struct {
	key    string
	cancel context.CancelFunc
	run    func() (any, error)
}

type Client struct {
	baseURL string
	ttl     time.Duration
	http    *resty.Client
	cache   *cache.Store[Payload]
	tel     telemetry.API

	group singleflight.Group
	// mu guards active, a key is in active exactly while group holds a call
	// for it.
	mu     sync.Mutex
	active map[string]*request
}

func New(opts Options) *Client {
	assert.NotNil(opts.Cache)
	assert.NotNil(opts.Telemetry)

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tel := telemetry.NewScopedAPI("api", opts.Telemetry)

	client := resty.New()
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	}
	client.SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	telemetry.InstrumentResty(client, tel)
	if opts.Dump != nil {
		restyutil.DumpExchanges(client, opts.Dump, func(err error) {
			tel.ReportWarning(report_client_dump, err)
		})
	}

	return &Client{
		baseURL: baseURL,
		ttl:     opts.TTL,
		http:    client,
		cache:   opts.Cache,
		tel:     tel,
		active:  make(map[string]*request),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Cache() *cache.Store[Payload] {
	return c.cache
}

// URL is the canonical URL of an endpoint with params, it is also the cache
// key.
func (c *Client) URL(endpoint string, params Params) string {
	out := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if query := params.Encode(); query != "" {
		out += "?" + query
	}
	return out
}

// RequestKey identifies an in flight request.
func RequestKey(endpoint, fullURL string) string {
	return endpoint + ":" + fullURL
}

// ClearCache drops cached responses of one endpoint, or of all endpoints
// when endpoint is empty.
func (c *Client) ClearCache(endpoint string) int {
	if endpoint == "" {
		return c.cache.Clear("")
	}
	return c.cache.Clear(c.baseURL + "/" + strings.TrimLeft(endpoint, "/"))
}

// InFlight returns the number of requests currently running.
func (c *Client) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// CancelRequest aborts the in flight request with the given key.
func (c *Client) CancelRequest(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.active[key]
	if !ok {
		return false
	}
	c.abort(rec)
	return true
}

// CancelAllRequests aborts every in flight request.
func (c *Client) CancelAllRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.active)
	for _, rec := range c.active {
		c.abort(rec)
	}
	if n > 0 {
		c.tel.ReportDebug("cancelled in flight requests", n)
	}
}

// abort must be called with mu held.
func (c *Client) abort(rec *request) {
	defer func() {
		if r := recover(); r != nil {
			c.tel.ReportWarning(report_client_cancel, rec.key, r)
		}
	}()
	delete(c.active, rec.key)
	c.group.Forget(rec.key)
	rec.cancel()
}

func (c *Client) settle(rec *request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active[rec.key] == rec {
		delete(c.active, rec.key)
		c.group.Forget(rec.key)
	}
	rec.cancel()
}
