package llm

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ClaudeAPIVersion is sent with every Anthropic request.
const ClaudeAPIVersion = "2023-06-01"

type codec struct {
	// encode builds the request body.
	encode func(p Provider, system, prompt string) ([]byte, error)
	// authorize sets auth and version headers.
	authorize func(req *http.Request, key string)
	// completion is the gjson path of the completion text.
	completion string
}

//nolint:gochecknoglobals // immutable codec table
var codecs = map[Format]codec{
	FormatOpenAI: {
		encode: func(p Provider, system, prompt string) (body []byte, err error) {
			body, err = json.Marshal(ChatRequest{
				Model: p.Model,
				Messages: []Message{
					{Role: "system", Content: system},
					{Role: "user", Content: prompt},
				},
				MaxTokens:   p.MaxTokens,
				Temperature: p.Temperature,
			})
			return body, err
		},
		authorize: func(req *http.Request, key string) {
			req.Header.Set("Authorization", "Bearer "+key)
		},
		completion: "choices.0.message.content",
	},
	FormatAnthropic: {
		encode: func(p Provider, system, prompt string) (body []byte, err error) {
			body, err = json.Marshal(ClaudeRequest{
				Model:       p.Model,
				System:      system,
				MaxTokens:   p.MaxTokens,
				Temperature: p.Temperature,
				Messages: []Message{
					{Role: "user", Content: prompt},
				},
			})
			return body, err
		},
		authorize: func(req *http.Request, key string) {
			req.Header.Set("X-Api-Key", key)
			req.Header.Set("Anthropic-Version", ClaudeAPIVersion)
		},
		completion: "content.0.text",
	},
}

// decodeCompletion pulls the completion text out of a 2xx response body.
func (c codec) decodeCompletion(body []byte) (text string, err error) {
	if !gjson.ValidBytes(body) {
		err = errors.Errorf("response is not JSON: %s", truncate(string(body), errorBodyLimit))
		return text, err
	}

	v := gjson.GetBytes(body, c.completion)
	if !v.Exists() || v.Type != gjson.String || v.String() == "" {
		err = errors.Errorf("response has no %s", c.completion)
		return text, err
	}

	text = v.String()

	return text, err
}
