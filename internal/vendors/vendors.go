// Package vendors selects and sets up the backend a language model is built
// on.
package vendors

import (
	"fmt"
	"strings"

	"github.com/baalimago/lamb/internal/vendors/anthropic"
	"github.com/baalimago/lamb/internal/vendors/deepseek"
	"github.com/baalimago/lamb/internal/vendors/gemini"
	"github.com/baalimago/lamb/internal/vendors/huggingface"
	"github.com/baalimago/lamb/internal/vendors/inception"
	"github.com/baalimago/lamb/internal/vendors/mistral"
	"github.com/baalimago/lamb/internal/vendors/novita"
	"github.com/baalimago/lamb/internal/vendors/ollama"
	"github.com/baalimago/lamb/internal/vendors/openai"
	"github.com/baalimago/lamb/internal/vendors/xai"
	"github.com/baalimago/lamb/pkg/llm"
)

// Backend holds the completion and chat side of a vendor. Either may be nil
// if the vendor lacks it.
type Backend struct {
	Name       string
	Completion llm.CompletionBackend
	Chat       llm.ChatBackend
}

// Options tune the selected vendor. Zero values keep the vendor defaults.
type Options struct {
	Model            string
	URL              string
	FrequencyPenalty *float64
	PresencePenalty  *float64
}

// tune overwrites the vendor fields with every option that is set.
func (o Options) tune(model, url *string, frequencyPenalty, presencePenalty **float64) {
	if o.Model != "" {
		*model = o.Model
	}
	if o.URL != "" {
		*url = o.URL
	}
	if o.FrequencyPenalty != nil {
		*frequencyPenalty = o.FrequencyPenalty
	}
	if o.PresencePenalty != nil {
		*presencePenalty = o.PresencePenalty
	}
}

type setupper interface {
	Setup() error
}

// chatVendor is a vendor serving both sides through one value.
type chatVendor interface {
	setupper
	llm.CompletionBackend
	llm.ChatBackend
}

// Names lists the known backends.
var Names = []string{
	"openai", "anthropic", "gemini", "ollama", "deepseek", "mistral",
	"xai", "novita", "inception", "huggingface", "mock",
}

var aliases = map[string]string{
	"gpt":    "openai",
	"claude": "anthropic",
	"google": "gemini",
	"grok":   "xai",
	"hf":     "huggingface",
}

// Select the backend by name. The vendor is set up before it is returned.
func Select(name string, opts Options) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[name]; ok {
		name = a
	}
	var v chatVendor
	switch name {
	case "openai":
		chat := openai.ChatDefault
		completions := openai.CompletionsDefault
		opts.tune(&chat.Model, &chat.URL, &chat.FrequencyPenalty, &chat.PresencePenalty)
		opts.tune(&completions.Model, &completions.URL, &completions.FrequencyPenalty, &completions.PresencePenalty)
		if err := setupAll(&chat, &completions); err != nil {
			return Backend{}, err
		}
		return Backend{Name: name, Completion: &completions, Chat: &chat}, nil
	case "anthropic":
		c := anthropic.Default
		// The messages api has no penalties
		var unused *float64
		opts.tune(&c.Model, &c.URL, &unused, &unused)
		v = &c
	case "gemini":
		g := gemini.Default
		opts.tune(&g.Model, &g.URL, &g.FrequencyPenalty, &g.PresencePenalty)
		v = &g
	case "ollama":
		o := ollama.Default
		opts.tune(&o.Model, &o.URL, &o.FrequencyPenalty, &o.PresencePenalty)
		v = &o
	case "deepseek":
		d := deepseek.Default
		opts.tune(&d.Model, &d.URL, &d.FrequencyPenalty, &d.PresencePenalty)
		v = &d
	case "mistral":
		m := mistral.Default
		opts.tune(&m.Model, &m.URL, &m.FrequencyPenalty, &m.PresencePenalty)
		v = &m
	case "xai":
		x := xai.Default
		opts.tune(&x.Model, &x.URL, &x.FrequencyPenalty, &x.PresencePenalty)
		v = &x
	case "novita":
		n := novita.Default
		opts.tune(&n.Model, &n.URL, &n.FrequencyPenalty, &n.PresencePenalty)
		v = &n
	case "inception":
		i := inception.Default
		opts.tune(&i.Model, &i.URL, &i.FrequencyPenalty, &i.PresencePenalty)
		v = &i
	case "huggingface":
		h := huggingface.Default
		opts.tune(&h.Model, &h.URL, &h.FrequencyPenalty, &h.PresencePenalty)
		v = &h
	case "mock":
		v = &Mock{}
	default:
		return Backend{}, fmt.Errorf("unknown backend: '%v', known backends: %v", name, strings.Join(Names, ", "))
	}
	if err := setupAll(v); err != nil {
		return Backend{}, err
	}
	return Backend{Name: name, Completion: v, Chat: v}, nil
}

func setupAll(vs ...setupper) error {
	for _, v := range vs {
		if err := v.Setup(); err != nil {
			return fmt.Errorf("failed to setup vendor: %w", err)
		}
	}
	return nil
}
