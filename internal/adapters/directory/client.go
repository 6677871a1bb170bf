// Package directory holds the HTTP clients for the user, group and vote
// directories this service reads from.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
)

var errEmptyBody = errors.New("empty response body")

type Options struct {
	// Timeout bounds a single attempt. Zero means no per-attempt timeout.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
	// RetryWait is the initial backoff interval.
	RetryWait time.Duration
	// Transport defaults to an otelhttp-instrumented http.DefaultTransport.
	Transport http.RoundTripper
	Log       logrus.FieldLogger
}

// client issues JSON requests against one directory. Transport errors and
// 5xx responses are retried with exponential backoff; any other failure is
// returned at once. Every failure wraps domain.ErrRemoteCallFailed.
type client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint64
	retryWait  time.Duration
	log        logrus.FieldLogger
}

func newClient(baseURL string, opts Options) *client {
	transport := opts.Transport
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	retryWait := opts.RetryWait
	if retryWait <= 0 {
		retryWait = 100 * time.Millisecond
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Transport: transport, Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		retryWait:  retryWait,
		log:        log,
	}
}

func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode %s %s: %v", domain.ErrRemoteCallFailed, method, path, err)
		}
	}

	attempt := func() error {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return backoff.Permanent(errEmptyBody)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		c.log.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"wait":   wait,
		}).Debug("retrying directory call")
	}

	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrRemoteCallFailed, method, path, err)
	}
	return nil
}

type existsResponse struct {
	Exists *bool `json:"exists"`
}

func (r existsResponse) value() (bool, error) {
	if r.Exists == nil {
		return false, fmt.Errorf("%w: response has no exists field", domain.ErrRemoteCallFailed)
	}
	return *r.Exists, nil
}
