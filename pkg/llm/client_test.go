package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nikogura/resume-builder/pkg/metrics"
)

// fakeProvider is an httptest server that counts hits and records the last
// Authorization header.
type fakeProvider struct {
	*httptest.Server
	hits atomic.Int32
	auth atomic.Value
}

func newFakeProvider(t *testing.T, status int, body string) (f *fakeProvider) {
	t.Helper()
	f = &fakeProvider{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.auth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func chatBody(text string) (body string) {
	data, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": text}},
		},
	})
	body = string(data)
	return body
}

func openAIProvider(name, endpoint string) (p Provider) {
	p = Provider{
		Name:        name,
		Endpoint:    endpoint,
		APIKeyEnv:   "TEST_" + name + "_KEY",
		Model:       name + "-model",
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Format:      FormatOpenAI,
	}
	return p
}

func noEnv(string) (v string) { return v }

func TestCompleteFailsOverInOrder(t *testing.T) {
	p1 := newFakeProvider(t, http.StatusInternalServerError, "boom")
	p2 := newFakeProvider(t, http.StatusOK, chatBody(`{"contact": {}}`))
	p3 := newFakeProvider(t, http.StatusOK, chatBody("never"))

	reg, err := NewRegistry(
		openAIProvider("p1", p1.URL),
		openAIProvider("p2", p2.URL),
		openAIProvider("p3", p3.URL),
	)
	require.NoError(t, err)

	m := metrics.New()
	client := NewClient(reg, Options{Getenv: noEnv, Logger: zaptest.NewLogger(t), Metrics: m})

	keys := map[string]string{"p1": "k1", "p2": "k2", "p3": "k3"}
	completion, err := client.Complete(context.Background(), Request{Prompt: "hi", APIKeys: keys})
	require.NoError(t, err)

	assert.Equal(t, "p2", completion.Provider)
	assert.Equal(t, "p2-model", completion.Model)
	assert.Equal(t, `{"contact": {}}`, completion.Text)
	assert.Equal(t, []string{"p1", "p2"}, completion.Tried)
	assert.Equal(t, int32(1), p1.hits.Load())
	assert.Equal(t, int32(1), p2.hits.Load())
	assert.Equal(t, int32(0), p3.hits.Load())
}

func TestCompletePreferredFirst(t *testing.T) {
	p1 := newFakeProvider(t, http.StatusOK, chatBody("from p1"))
	p2 := newFakeProvider(t, http.StatusOK, chatBody("from p2"))

	reg, err := NewRegistry(openAIProvider("p1", p1.URL), openAIProvider("p2", p2.URL))
	require.NoError(t, err)

	client := NewClient(reg, Options{Getenv: noEnv, Logger: zaptest.NewLogger(t)})
	completion, err := client.Complete(context.Background(), Request{
		Prompt:    "hi",
		Preferred: "p2",
		APIKeys:   map[string]string{"p1": "k", "p2": "k"},
	})
	require.NoError(t, err)

	assert.Equal(t, "from p2", completion.Text)
	assert.Equal(t, int32(0), p1.hits.Load())
}

func TestCompleteCredentialPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		explicit   string
		env        string
		defaultKey string
		wantAuth   string
		wantHit    bool
	}{
		{name: "explicit wins", explicit: "explicit", env: "env", defaultKey: "default", wantAuth: "Bearer explicit", wantHit: true},
		{name: "env over default", env: "env", defaultKey: "default", wantAuth: "Bearer env", wantHit: true},
		{name: "default last", defaultKey: "default", wantAuth: "Bearer default", wantHit: true},
		{name: "none skips", wantHit: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeProvider(t, http.StatusOK, chatBody("ok"))

			p := openAIProvider("solo", fake.URL)
			p.DefaultKey = tc.defaultKey
			reg, err := NewRegistry(p)
			require.NoError(t, err)

			getenv := func(name string) (v string) {
				if name == p.APIKeyEnv {
					v = tc.env
				}
				return v
			}

			client := NewClient(reg, Options{Getenv: getenv, Logger: zaptest.NewLogger(t)})
			keys := map[string]string{}
			if tc.explicit != "" {
				keys["solo"] = tc.explicit
			}

			_, err = client.Complete(context.Background(), Request{Prompt: "hi", APIKeys: keys})

			if !tc.wantHit {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAllProvidersExhausted))
				assert.True(t, errors.Is(err, ErrProviderUnavailable))
				assert.Equal(t, int32(0), fake.hits.Load())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantAuth, fake.auth.Load())
		})
	}
}

func TestCompleteRequestShape(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(chatBody("ok")))
	}))
	defer srv.Close()

	reg, err := NewRegistry(openAIProvider("p", srv.URL))
	require.NoError(t, err)

	client := NewClient(reg, Options{Getenv: noEnv, SystemPrompt: "be terse"})
	_, err = client.Complete(context.Background(), Request{Prompt: "write it", APIKeys: map[string]string{"p": "k"}})
	require.NoError(t, err)

	assert.Equal(t, "p-model", got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.InDelta(t, DefaultTemperature, got.Temperature, 0.0001)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, Message{Role: "system", Content: "be terse"}, got.Messages[0])
	assert.Equal(t, Message{Role: "user", Content: "write it"}, got.Messages[1])
}

func TestCompleteAnthropicFormat(t *testing.T) {
	var got ClaudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, ClaudeAPIVersion, r.Header.Get("Anthropic-Version"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"msg","type":"message","content":[{"type":"text","text":"claude says"}]}`))
	}))
	defer srv.Close()

	reg, err := NewRegistry(Provider{
		Name:      "claude",
		Endpoint:  srv.URL,
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 1024,
		Format:    FormatAnthropic,
	})
	require.NoError(t, err)

	client := NewClient(reg, Options{Getenv: noEnv})
	completion, err := client.Complete(context.Background(), Request{Prompt: "hi", APIKeys: map[string]string{"claude": "test-key"}})
	require.NoError(t, err)

	assert.Equal(t, "claude says", completion.Text)
	assert.Equal(t, DefaultSystemPrompt, got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestCompleteFailureClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   int
	}{
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", want: http.StatusBadGateway},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, want: http.StatusUnauthorized},
		{name: "no choices", status: http.StatusOK, body: `{"choices": []}`, want: http.StatusOK},
		{name: "empty content", status: http.StatusOK, body: chatBody(""), want: http.StatusOK},
		{name: "not json", status: http.StatusOK, body: "<html>", want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeProvider(t, tc.status, tc.body)
			reg, err := NewRegistry(openAIProvider("only", fake.URL))
			require.NoError(t, err)

			client := NewClient(reg, Options{Getenv: noEnv, Logger: zaptest.NewLogger(t)})
			_, err = client.Complete(context.Background(), Request{Prompt: "hi", APIKeys: map[string]string{"only": "k"}})
			require.Error(t, err)

			var exhausted *AllProvidersExhaustedError
			require.True(t, errors.As(err, &exhausted))
			assert.Equal(t, []string{"only"}, exhausted.Tried)

			var callErr *ProviderCallFailedError
			require.True(t, errors.As(err, &callErr))
			assert.Equal(t, "only", callErr.Provider)
			assert.Equal(t, tc.want, callErr.Status)
			assert.True(t, errors.Is(err, ErrProviderCallFailed))
		})
	}
}

func TestCompleteErrorBodyTruncated(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	fake := newFakeProvider(t, http.StatusTooManyRequests, string(long))

	reg, err := NewRegistry(openAIProvider("only", fake.URL))
	require.NoError(t, err)

	client := NewClient(reg, Options{Getenv: noEnv})
	_, err = client.Complete(context.Background(), Request{Prompt: "hi", APIKeys: map[string]string{"only": "k"}})
	require.Error(t, err)

	var callErr *ProviderCallFailedError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "HTTP 429: "+string(long[:200]), callErr.Err.Error())
}

func TestCompleteTimeoutFailsOver(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	fast := newFakeProvider(t, http.StatusOK, chatBody("fast"))

	reg, err := NewRegistry(openAIProvider("slow", slow.URL), openAIProvider("fast", fast.URL))
	require.NoError(t, err)

	client := NewClient(reg, Options{Getenv: noEnv, Timeout: 50 * time.Millisecond, Logger: zaptest.NewLogger(t)})
	completion, err := client.Complete(context.Background(), Request{
		Prompt:  "hi",
		APIKeys: map[string]string{"slow": "k", "fast": "k"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fast", completion.Provider)
}

func TestCompleteCancelled(t *testing.T) {
	fake := newFakeProvider(t, http.StatusOK, chatBody("ok"))
	reg, err := NewRegistry(openAIProvider("p", fake.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(reg, Options{Getenv: noEnv})
	_, err = client.Complete(ctx, Request{Prompt: "hi", APIKeys: map[string]string{"p": "k"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrAllProvidersExhausted))
	assert.Equal(t, int32(0), fake.hits.Load())
}

func TestCompleteEmptyRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	_, err = NewClient(reg, Options{Getenv: noEnv}).Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllProvidersExhausted))
}
