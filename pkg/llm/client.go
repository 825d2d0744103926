// Package llm is a failover client over a table of remote text completion
// providers. Providers are tried in order, once each, until one returns a
// non-empty completion.
package llm

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nikogura/resume-builder/pkg/metrics"
)

const (
	// DefaultTimeout bounds each provider request.
	DefaultTimeout = 120 * time.Second
	// DefaultSystemPrompt is sent as the system message on every request.
	DefaultSystemPrompt = "You are a professional resume writer. Always respond with valid JSON only."
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	Timeout      time.Duration
	SystemPrompt string
	// Getenv resolves credential environment variables. Defaults to os.Getenv.
	Getenv     func(string) string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Client is safe for concurrent use.
type Client struct {
	registry   *Registry
	httpClient *http.Client
	system     string
	getenv     func(string) string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a client over registry.
func NewClient(registry *Registry, opts Options) (client *Client) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: opts.Timeout,
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	client = &Client{
		registry:   registry,
		httpClient: opts.HTTPClient,
		system:     opts.SystemPrompt,
		getenv:     opts.Getenv,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}

	return client
}

// Registry returns the provider table the client walks.
func (c *Client) Registry() (r *Registry) {
	r = c.registry
	return r
}

// Complete sends the prompt to each provider in failover order and returns
// the first non-empty completion. Providers after the winner are never
// contacted. When every provider fails it returns an
// *AllProvidersExhaustedError. Cancelling ctx stops the sweep.
func (c *Client) Complete(ctx context.Context, req Request) (completion Completion, err error) {
	ordered := c.registry.Order(req.Preferred)
	if req.Preferred != "" {
		if _, ok := c.registry.Lookup(req.Preferred); !ok {
			c.logger.Warn("preferred provider not registered, using registry order",
				zap.String("provider", req.Preferred),
				zap.Strings("registered", c.registry.Names()),
			)
		}
	}

	tried := make([]string, 0, len(ordered))
	var last error

	for _, p := range ordered {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Wrap(ctxErr, "completion cancelled")
			return completion, err
		}

		tried = append(tried, p.Name)
		log := c.logger.With(zap.String("provider", p.Name), zap.String("model", p.Model))

		key, source := p.Credential(req.APIKeys[p.Name], c.getenv)
		if source == CredentialNone {
			last = &ProviderUnavailableError{Provider: p.Name, EnvVar: p.EnvVar()}
			log.Info("skipping provider without credential", zap.String("env", p.EnvVar()))
			c.metrics.ObserveProviderCall(p.Name, metrics.OutcomeUnavailable, 0)
			continue
		}

		log.Debug("calling provider", zap.String("credential", string(source)))

		start := time.Now()
		var text string
		text, err = c.call(ctx, p, key, req.Prompt)
		elapsed := time.Since(start)

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = errors.Wrap(ctxErr, "completion cancelled")
				return completion, err
			}

			last = err
			err = nil
			log.Warn("provider call failed", zap.Error(last), zap.Duration("elapsed", elapsed))
			c.metrics.ObserveProviderCall(p.Name, metrics.OutcomeFailed, elapsed)
			continue
		}

		log.Info("provider returned completion",
			zap.Duration("elapsed", elapsed),
			zap.Int("length", len(text)),
		)
		c.metrics.ObserveProviderCall(p.Name, metrics.OutcomeSuccess, elapsed)

		completion = Completion{
			Text:     text,
			Provider: p.Name,
			Model:    p.Model,
			Tried:    tried,
		}
		return completion, err
	}

	if last == nil {
		last = errors.New("no providers registered")
	}

	err = &AllProvidersExhaustedError{Tried: tried, Last: last}

	return completion, err
}

// call performs one request against one provider. Any failure comes back as
// a *ProviderCallFailedError.
func (c *Client) call(ctx context.Context, p Provider, key, prompt string) (text string, err error) {
	cdc := codecs[p.Format]

	fail := func(status int, cause error) (string, error) {
		return "", &ProviderCallFailedError{Provider: p.Name, Status: status, Err: cause}
	}

	var reqBody []byte
	reqBody, err = cdc.encode(p, c.system, prompt)
	if err != nil {
		return fail(0, errors.Wrap(err, "failed to marshal request"))
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fail(0, errors.Wrap(err, "failed to create HTTP request"))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	cdc.authorize(httpReq, key)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		return fail(0, errors.Wrap(err, "HTTP request failed"))
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, errors.Wrap(err, "failed to read response body"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errors.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), errorBodyLimit)))
	}

	text, err = cdc.decodeCompletion(respBody)
	if err != nil {
		return fail(resp.StatusCode, err)
	}

	return text, err
}
