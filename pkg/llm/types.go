package llm

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the OpenAI compatible chat completions request body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ClaudeRequest is the Anthropic messages request body.
type ClaudeRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// Request is a single completion request.
type Request struct {
	Prompt string
	// Preferred names the provider to try first.
	Preferred string
	// APIKeys holds explicit keys by provider name. They win over the
	// environment and built-in defaults.
	APIKeys map[string]string
}

// Completion is a successful completion.
type Completion struct {
	Text     string
	Provider string
	Model    string
	// Tried lists every provider considered, in order, including the winner.
	Tried []string
}
