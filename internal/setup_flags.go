package internal

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/baalimago/lamb/internal/config"
)

// Flags of a single run. Zero values mean "keep what the config file says".
type Flags struct {
	Backend      string
	Model        string
	Template     string
	SystemPrompt string
	Output       string
	Keys         string
	Stop         string
	URL          string
	Vars         bindingFlag
	Trail        bool
}

// bindingFlag collects repeated name=value flags in order.
type bindingFlag []string

func (b *bindingFlag) String() string {
	return strings.Join(*b, ",")
}

func (b *bindingFlag) Set(s string) error {
	if name, _, ok := strings.Cut(s, "="); !ok || name == "" {
		return fmt.Errorf("expected name=value, got: '%v'", s)
	}
	*b = append(*b, s)
	return nil
}

func parseFlags(args []string) (Flags, []string, error) {
	var defaults Flags
	fs := flag.NewFlagSet("lamb", flag.ContinueOnError)
	fs.String("A-helpful-nonexisting-flag", "there is no default", "This isn't a flag. It's only here to tell you that 'lamb h/help' gives better overview of usage than 'lamb -h'.")

	bShort := fs.String("b", defaults.Backend, "Set the backend to use. Mutually exclusive with backend flag.")
	bLong := fs.String("backend", defaults.Backend, "Set the backend to use. Mutually exclusive with b flag.")

	mShort := fs.String("m", defaults.Model, "Set the model of the backend. Mutually exclusive with model flag.")
	mLong := fs.String("model", defaults.Model, "Set the model of the backend. Mutually exclusive with m flag.")

	tShort := fs.String("t", defaults.Template, "Set the prompt template, the input is bound to {text}.")
	tLong := fs.String("template", defaults.Template, "Set the prompt template, the input is bound to {text}.")

	spShort := fs.String("sp", defaults.SystemPrompt, "Set the system prompt of the chat command.")
	spLong := fs.String("system-prompt", defaults.SystemPrompt, "Set the system prompt of the chat command.")

	oShort := fs.String("o", defaults.Output, "Set the output parser: text, list, keys or raw.")
	oLong := fs.String("output", defaults.Output, "Set the output parser: text, list, keys or raw.")

	kShort := fs.String("k", defaults.Keys, "Comma separated keys for the keys output parser.")
	kLong := fs.String("keys", defaults.Keys, "Comma separated keys for the keys output parser.")

	sShort := fs.String("s", defaults.Stop, "Comma separated stop sequences. Escape a literal comma as '\\,'.")
	sLong := fs.String("stop", defaults.Stop, "Comma separated stop sequences. Escape a literal comma as '\\,'.")

	uShort := fs.String("u", defaults.URL, "Set the endpoint url of the backend.")
	uLong := fs.String("url", defaults.URL, "Set the endpoint url of the backend.")

	var vars bindingFlag
	fs.Var(&vars, "var", "Bind a template placeholder, as name=value. May be repeated.")
	trail := fs.Bool("trail", defaults.Trail, "Print the value after every step.")

	if err := fs.Parse(args); err != nil {
		return Flags{}, nil, fmt.Errorf("failed to parse args: %w", err)
	}

	var errs []error
	pick := func(short, long, shortName, longName string) string {
		v, err := returnNonDefault(short, long, "")
		if err != nil {
			errs = append(errs, fmt.Errorf("flags '%v' and '%v': %w", shortName, longName, err))
		}
		return v
	}
	ret := Flags{
		Backend:      pick(*bShort, *bLong, "b", "backend"),
		Model:        pick(*mShort, *mLong, "m", "model"),
		Template:     pick(*tShort, *tLong, "t", "template"),
		SystemPrompt: pick(*spShort, *spLong, "sp", "system-prompt"),
		Output:       pick(*oShort, *oLong, "o", "output"),
		Keys:         pick(*kShort, *kLong, "k", "keys"),
		Stop:         pick(*sShort, *sLong, "s", "stop"),
		URL:          pick(*uShort, *uLong, "u", "url"),
		Vars:         vars,
		Trail:        *trail,
	}
	if len(errs) > 0 {
		return Flags{}, nil, errors.Join(errs...)
	}
	return ret, fs.Args(), nil
}

func returnNonDefault[T comparable](a, b, defaultVal T) (T, error) {
	if a != defaultVal && b != defaultVal {
		return defaultVal, fmt.Errorf("values are mutually exclusive")
	}
	if a != defaultVal {
		return a, nil
	}
	return b, nil
}

// applyFlagOverrides keeps the convention flags > file > default.
func applyFlagOverrides(conf *config.Configurations, f Flags) {
	if f.Backend != "" {
		conf.Backend = f.Backend
	}
	if f.Model != "" {
		conf.Model = f.Model
	}
	if f.Template != "" {
		conf.Template = f.Template
	}
	if f.SystemPrompt != "" {
		conf.SystemPrompt = f.SystemPrompt
	}
	if f.Output != "" {
		conf.Output = f.Output
	}
	if f.Keys != "" {
		conf.Keys = splitList(f.Keys)
	}
	if f.Stop != "" {
		conf.Stop = splitStop(f.Stop)
	}
	if f.URL != "" {
		conf.URL = f.URL
	}
}

func splitList(s string) []string {
	var ret []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}

// splitStop splits on commas which are not escaped as "\,". Surrounding
// whitespace is kept and escapes such as \n are resolved.
func splitStop(s string) []string {
	var ret []string
	var cur strings.Builder
	flush := func() {
		p := cur.String()
		cur.Reset()
		if unq, err := strconv.Unquote(`"` + p + `"`); err == nil {
			p = unq
		}
		if p != "" {
			ret = append(ret, p)
		}
	}
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ',':
			cur.WriteByte(',')
			i++
		case s[i] == '\\' && i+1 < len(s):
			// Kept for strconv.Unquote, so "\\," stays a backslash and a separator
			cur.WriteString(s[i : i+2])
			i++
		case s[i] == ',':
			flush()
		default:
			cur.WriteByte(s[i])
		}
	}
	flush()
	return ret
}
