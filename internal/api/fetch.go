package api

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

type fetchConfig struct {
	useCache bool
}

type FetchOption func(*fetchConfig)

// WithoutCache neither reads nor writes the cache.
func WithoutCache() FetchOption {
	return func(c *fetchConfig) {
		c.useCache = false
	}
}

// FetchData returns the normalized response of endpoint. A cached response
// is returned without any network activity. Otherwise concurrent calls for
// the same URL share a single request, which keeps running when a caller
// stops waiting and only stops when cancelled through CancelRequest or
// CancelAllRequests.
func (c *Client) FetchData(ctx context.Context, endpoint string, params Params, opts ...FetchOption) (Payload, error) {
	config := fetchConfig{useCache: true}
	for _, opt := range opts {
		opt(&config)
	}

	fullURL := c.URL(endpoint, params)
	if config.useCache {
		if payload, ok := c.cache.Get(fullURL); ok {
			cacheHitCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
			return payload, nil
		}
	}

	key := RequestKey(endpoint, fullURL)
	for {
		ch, owner := c.join(ctx, endpoint, fullURL, key, config.useCache)

		select {
		case res := <-ch:
			if res.Err == nil {
				return res.Val.(Payload), nil
			}
			// somebody else's request was cancelled under us, start over
			if !owner && IsAborted(res.Err) && ctx.Err() == nil {
				continue
			}
			return Payload{}, res.Err
		case <-ctx.Done():
			return Payload{}, fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
		}
	}
}

// join attaches to the in flight request for key or starts one, owner is
// true when this call started it.
func (c *Client) join(ctx context.Context, endpoint, fullURL, key string, useCache bool) (<-chan singleflight.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.active[key]; ok {
		dedupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
		c.tel.ReportDebug("joined in flight request", key)
		return c.group.DoChan(key, rec.run), false
	}

	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	rec := &request{key: key, cancel: cancel}
	rec.run = func() (any, error) {
		defer c.settle(rec)
		return c.perform(reqCtx, endpoint, fullURL, useCache)
	}
	c.active[key] = rec
	return c.group.DoChan(key, rec.run), true
}

func (c *Client) perform(ctx context.Context, endpoint, fullURL string, useCache bool) (Payload, error) {
	ctx, span := tracer.Start(ctx, "api.fetch", trace.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("url", fullURL),
	))
	defer span.End()
	requestCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))

	payload, err := c.request(ctx, fullURL)
	if err != nil {
		if IsAborted(err) {
			span.SetStatus(codes.Unset, "aborted")
			return Payload{}, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var tooLarge *DatasetTooLargeError
		if errors.As(err, &tooLarge) {
			c.tel.ReportBroken(report_client_fetch_data, err, fullURL)
		} else {
			c.tel.ReportWarning(report_client_fetch_data, err, fullURL)
		}
		return Payload{}, err
	}

	span.SetAttributes(
		attribute.String("shape", payload.Shape.String()),
		attribute.Int("rows", len(payload.Rows)),
	)
	if useCache {
		c.cache.Set(fullURL, payload, c.ttl)
	}
	return payload, nil
}

func (c *Client) request(ctx context.Context, fullURL string) (Payload, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(fullURL)
	if err != nil {
		return Payload{}, classifyTransportError(ctx, err)
	}
	if ctx.Err() != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return Payload{}, &HTTPError{Status: res.StatusCode(), URL: fullURL}
	}
	return ParsePayload(res.Body())
}
