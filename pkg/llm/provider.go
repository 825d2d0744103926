package llm

import (
	"strings"

	"github.com/pkg/errors"
)

// Format selects the wire codec used to talk to a provider.
type Format string

const (
	// FormatOpenAI is the OpenAI compatible chat completions API.
	FormatOpenAI Format = "openai"
	// FormatAnthropic is the Anthropic messages API.
	FormatAnthropic Format = "anthropic"
)

// CredentialSource tells where a provider's key came from.
type CredentialSource string

const (
	CredentialExplicit CredentialSource = "explicit"
	CredentialEnv      CredentialSource = "env"
	CredentialDefault  CredentialSource = "default"
	CredentialNone     CredentialSource = "none"
)

// Default provider settings.
const (
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7

	// GroqDemoKey is the built-in credential for the free tier provider. It is
	// a placeholder: deployments must supply GROQ_API_KEY or an explicit key.
	GroqDemoKey = "gsk_demo_key_replace_me"
)

// Provider describes one remote completion service.
type Provider struct {
	Name        string
	Endpoint    string
	APIKeyEnv   string
	Model       string
	MaxTokens   int
	Temperature float64
	Format      Format
	// DefaultKey is used when neither an explicit key nor the environment
	// supplies one. Empty for every provider but the free tier.
	DefaultKey string
}

// EnvVar returns the environment variable holding the provider's key.
func (p Provider) EnvVar() (name string) {
	name = p.APIKeyEnv
	if name == "" {
		name = strings.ToUpper(strings.ReplaceAll(p.Name, "-", "_")) + "_API_KEY"
	}
	return name
}

// Credential resolves the key: explicit, then environment, then default.
func (p Provider) Credential(explicit string, getenv func(string) string) (key string, source CredentialSource) {
	if explicit != "" {
		key = explicit
		source = CredentialExplicit
		return key, source
	}

	if getenv != nil {
		if v := getenv(p.EnvVar()); v != "" {
			key = v
			source = CredentialEnv
			return key, source
		}
	}

	if p.DefaultKey != "" {
		key = p.DefaultKey
		source = CredentialDefault
		return key, source
	}

	source = CredentialNone
	return key, source
}

// DefaultProviders returns the stock provider table in failover order.
func DefaultProviders() (providers []Provider) {
	providers = []Provider{
		{
			Name:        "groq",
			Endpoint:    "https://api.groq.com/openai/v1/chat/completions",
			APIKeyEnv:   "GROQ_API_KEY",
			Model:       "llama-3.3-70b-versatile",
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Format:      FormatOpenAI,
			DefaultKey:  GroqDemoKey,
		},
		{
			Name:        "together",
			Endpoint:    "https://api.together.xyz/v1/chat/completions",
			APIKeyEnv:   "TOGETHER_API_KEY",
			Model:       "meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo",
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Format:      FormatOpenAI,
		},
		{
			Name:        "openai",
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "gpt-3.5-turbo",
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Format:      FormatOpenAI,
		},
	}
	return providers
}

// Registry is an immutable, ordered set of providers.
type Registry struct {
	providers []Provider
}

// NewRegistry validates and copies providers. Names must be unique and every
// format must have a codec.
func NewRegistry(providers ...Provider) (r *Registry, err error) {
	seen := make(map[string]bool, len(providers))

	for i, p := range providers {
		if p.Name == "" {
			err = errors.Errorf("provider at index %d has no name", i)
			return r, err
		}
		if seen[p.Name] {
			err = errors.Errorf("duplicate provider %q", p.Name)
			return r, err
		}
		seen[p.Name] = true

		if p.Endpoint == "" {
			err = errors.Errorf("provider %q has no endpoint", p.Name)
			return r, err
		}
		if _, ok := codecs[p.Format]; !ok {
			err = errors.Errorf("provider %q has unsupported format %q", p.Name, p.Format)
			return r, err
		}
	}

	r = &Registry{providers: append([]Provider(nil), providers...)}

	return r, err
}

// DefaultRegistry returns a registry over DefaultProviders.
func DefaultRegistry() (r *Registry) {
	r, _ = NewRegistry(DefaultProviders()...)
	return r
}

// Providers returns a copy of the table in registry order.
func (r *Registry) Providers() (providers []Provider) {
	providers = append([]Provider(nil), r.providers...)
	return providers
}

// Names returns provider names in registry order.
func (r *Registry) Names() (names []string) {
	names = make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name)
	}
	return names
}

// Lookup finds a provider by name.
func (r *Registry) Lookup(name string) (p Provider, ok bool) {
	for _, candidate := range r.providers {
		if candidate.Name == name {
			p = candidate
			ok = true
			return p, ok
		}
	}
	return p, ok
}

// Order returns the failover sequence: the preferred provider first if it is
// registered, then the rest in registry order. Each provider appears once.
func (r *Registry) Order(preferred string) (ordered []Provider) {
	ordered = make([]Provider, 0, len(r.providers))

	if p, ok := r.Lookup(preferred); ok {
		ordered = append(ordered, p)
	}

	for _, p := range r.providers {
		if p.Name == preferred {
			continue
		}
		ordered = append(ordered, p)
	}

	return ordered
}
