// Package gemini is the client for the hosted generateContent API. The rest
// of the application treats it as an opaque transform: prompt text in,
// result text out, with retries and rate limiting handled here.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"transmate/internal/apperrors"
	"transmate/internal/config"
	"transmate/internal/constants"
	"transmate/internal/tracing"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

type Client struct {
	cfg  *config.FileConfig
	cli  *http.Client
	gate *rate.Limiter
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

// New builds a client from configuration: transport timeouts, optional
// proxy and an outbound rate gate shared by all requests.
func New(cfg *config.FileConfig) *Client {
	dialTO := durationOrDefault(cfg.DialTimeoutSec, constants.DefaultDialTimeout)
	tlsTO := durationOrDefault(cfg.TLSHandshakeTimeoutSec, constants.DefaultTLSHandshakeTimeout)
	hdrTO := durationOrDefault(cfg.ResponseHeaderTimeoutSec, constants.DefaultResponseHeaderTimeout)

	tr := &http.Transport{
		Proxy: proxyFunc(cfg.ProxyURL),
		DialContext: (&net.Dialer{
			Timeout:   dialTO,
			KeepAlive: constants.KeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   tlsTO,
		ResponseHeaderTimeout: hdrTO,
		MaxIdleConns:          constants.MaxIdleConns,
		MaxIdleConnsPerHost:   constants.MaxIdleConnsPerHost,
		IdleConnTimeout:       constants.IdleConnTimeout,
	}

	rps := cfg.UpstreamRPS
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.UpstreamBurst
	if burst <= 0 {
		burst = rps
	}
	return &Client{
		cfg:  cfg,
		cli:  &http.Client{Transport: tr, Timeout: 0},
		gate: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func proxyFunc(proxyURL string) func(*http.Request) (*url.URL, error) {
	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			return http.ProxyURL(parsed)
		}
	}
	return http.ProxyFromEnvironment
}

// GenerateText sends a text-only prompt and returns the model's text reply.
// An empty reply is not an error; callers decide what to do with it.
func (c *Client) GenerateText(ctx context.Context, model, promptText string) (string, error) {
	payload, err := textPayload(promptText)
	if err != nil {
		return "", err
	}
	return c.generate(ctx, model, payload)
}

// GenerateImage sends a prompt plus an inline image (OCR-and-translate).
func (c *Client) GenerateImage(ctx context.Context, model, promptText string, image []byte, mimeType string) (string, error) {
	payload, err := imagePayload(promptText, image, mimeType)
	if err != nil {
		return "", err
	}
	return c.generate(ctx, model, payload)
}

func (c *Client) generate(ctx context.Context, model string, payload []byte) (string, error) {
	if model == "" {
		model = c.cfg.DefaultModel
	}
	useURL := c.cfg.GeminiEndpoint + "/v1beta/models/" + model + ":generateContent"

	spanCtx, span := tracing.StartSpan(ctx, "gemini", "Gemini.GenerateContent",
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("http.url", useURL),
			attribute.String("gen_ai.request.model", model),
		))
	defer span.End()
	ctx = spanCtx

	status, body, err := c.doWithRetry(ctx, useURL, payload)
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", apperrors.Upstream(0, fmt.Sprintf("model call failed: %v", err), nil)
	}
	if status != http.StatusOK {
		span.SetStatus(codes.Error, fmt.Sprintf("http_status=%d", status))
		return "", apperrors.Upstream(status, upstreamMessage(status, body), body)
	}
	span.SetStatus(codes.Ok, "")

	return extractText(body)
}

// doWithRetry performs the POST, retrying per configuration. The returned
// body is fully read and the response closed.
func (c *Client) doWithRetry(ctx context.Context, useURL string, payload []byte) (int, []byte, error) {
	maxAttempts := c.cfg.RetryMax + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		lastStatus int
		lastBody   []byte
		lastErr    error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := c.gate.Wait(ctx); err != nil {
			return 0, nil, err
		}

		status, body, retryAfter, err := c.doOnce(ctx, useURL, payload)
		lastStatus, lastBody, lastErr = status, body, err

		retry, wait := c.shouldRetry(status, err, attempt)
		if !retry || attempt == maxAttempts-1 {
			break
		}
		// The provider's own pacing hint wins over our backoff.
		if d, ok := parseRetryAfter(retryAfter); ok && (status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable) {
			wait = d
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		}
	}
	return lastStatus, lastBody, lastErr
}

func (c *Client) doOnce(ctx context.Context, useURL string, payload []byte) (int, []byte, string, error) {
	reqCtx := ctx
	if to := durationOrDefault(c.cfg.RequestTimeoutSec, constants.DefaultRequestTimeout); to > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, to)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, useURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.GeminiAPIKey)

	resp, err := c.cli.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer resp.Body.Close()

	retryAfter := resp.Header.Get("Retry-After")
	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return resp.StatusCode, nil, retryAfter, err
	}
	return resp.StatusCode, body, retryAfter, nil
}

func (c *Client) shouldRetry(status int, err error, attempt int) (bool, time.Duration) {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, 0
		}
		if c.cfg.RetryOnNetworkError {
			return true, c.nextBackoff(attempt)
		}
		return false, 0
	}
	switch {
	case status == http.StatusTooManyRequests:
		return true, c.nextBackoff(attempt)
	case c.cfg.RetryOn5xx && status >= 500 && status <= 599:
		return true, c.nextBackoff(attempt)
	case status == http.StatusRequestTimeout:
		return true, c.nextBackoff(attempt)
	}
	return false, 0
}

func upstreamMessage(status int, body []byte) string {
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return msg
	}
	return fmt.Sprintf("model call failed with status %d", status)
}
