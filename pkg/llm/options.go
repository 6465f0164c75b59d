package llm

import "slices"

const (
	DefaultMaxTokens   = 100
	DefaultTemperature = 0.7
)

// CallOptions are forwarded to the backend. Nil pointers mean "use the
// model default".
type CallOptions struct {
	Stop        []string `json:"stop,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

type Option func(*CallOptions)

func WithStop(stop ...string) Option {
	return func(o *CallOptions) {
		o.Stop = slices.Clone(stop)
	}
}

// WithMaxTokens caps the generated length. Non-positive values are ignored
// so the previous setting, or DefaultMaxTokens, stays in effect.
func WithMaxTokens(n int) Option {
	return func(o *CallOptions) {
		if n <= 0 {
			return
		}
		o.MaxTokens = &n
	}
}

func WithTemperature(temp float64) Option {
	return func(o *CallOptions) {
		o.Temperature = &temp
	}
}

func WithTopP(p float64) Option {
	return func(o *CallOptions) {
		o.TopP = &p
	}
}

// Apply returns a copy of base with opts applied on top.
func (base CallOptions) Apply(opts ...Option) CallOptions {
	ret := base
	ret.Stop = slices.Clone(base.Stop)
	for _, opt := range opts {
		if opt != nil {
			opt(&ret)
		}
	}
	return ret
}

func (o CallOptions) maxTokens() int {
	if o.MaxTokens == nil {
		return DefaultMaxTokens
	}
	return *o.MaxTokens
}

func (o CallOptions) temperature() float64 {
	if o.Temperature == nil {
		return DefaultTemperature
	}
	return *o.Temperature
}
