package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/baalimago/lamb/internal/config"
	"github.com/baalimago/lamb/internal/vendors"
	"github.com/baalimago/lamb/pkg/chain"
	"github.com/baalimago/lamb/pkg/llm"
	"github.com/baalimago/lamb/pkg/models"
	"github.com/baalimago/lamb/pkg/parser"
	"github.com/baalimago/lamb/pkg/prompt"
)

type chainQuerier struct {
	chain *chain.Chain
	input models.Value
	trail bool
	out   io.Writer
}

func newChainQuerier(mode Mode, backend vendors.Backend, conf config.Configurations, f Flags, args []string, stdin *os.File) (*chainQuerier, error) {
	text := strings.Join(args, " ")
	if text == "" {
		piped, err := readPiped(stdin)
		if err != nil {
			return nil, err
		}
		text = piped
	}
	if text == "" {
		return nil, errors.New("found no prompt, set args or pipe something into stdin")
	}

	var c *chain.Chain
	var err error
	switch mode {
	case CHAT:
		c, err = newChatChain(backend, conf, conf.Template, conf.SystemPrompt, conf.Output, conf.Keys)
	default:
		c, err = newCompletionChain(backend, conf, conf.Template, conf.Output, conf.Keys)
	}
	if err != nil {
		return nil, err
	}

	bindings, err := bindVars(models.Pairs(chain.DefaultBinding, text), f.Vars)
	if err != nil {
		return nil, err
	}
	return &chainQuerier{
		chain: c,
		input: models.FromMapping(bindings),
		trail: f.Trail,
		out:   os.Stdout,
	}, nil
}

func (q *chainQuerier) Query(ctx context.Context) error {
	var opts []chain.CallOption
	if q.trail {
		opts = append(opts, chain.WithIntermediate())
	}
	start := time.Now()
	res, err := q.chain.Call(ctx, q.input, opts...)
	if err != nil {
		slog.Debug("chain_failed", "error", err)
		return fmt.Errorf("failed to call chain: %w", err)
	}
	slog.Debug("chain_done", "steps", q.chain.Len(), "duration", time.Since(start))
	if q.trail {
		printTrail(q.out, q.chain.Kinds(), res.Intermediate)
	}
	printValue(q.out, res.Output)
	return nil
}

// readPiped returns stdin if something is piped into it.
func readPiped(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", nil
	}
	fi, err := stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}
	if fi.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	b, err := io.ReadAll(bufio.NewReader(stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// bindVars adds name=value pairs on top of base.
func bindVars(base models.Mapping, vars []string) (models.Mapping, error) {
	ret := base
	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return models.Mapping{}, fmt.Errorf("expected name=value, got: '%v'", v)
		}
		ret = ret.With(name, models.Text(value))
	}
	return ret, nil
}

func modelOptions(conf config.Configurations) []llm.Option {
	var opts []llm.Option
	if len(conf.Stop) > 0 {
		opts = append(opts, llm.WithStop(conf.Stop...))
	}
	if conf.MaxTokens != nil {
		opts = append(opts, llm.WithMaxTokens(*conf.MaxTokens))
	}
	if conf.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*conf.Temperature))
	}
	if conf.TopP != nil {
		opts = append(opts, llm.WithTopP(*conf.TopP))
	}
	return opts
}

func outputParser(output string, keys []string) (parser.Parser, error) {
	switch strings.ToLower(output) {
	case "", "text":
		return parser.Text{}, nil
	case "list":
		return parser.List{}, nil
	case "keys":
		if len(keys) == 0 {
			return nil, errors.New("output 'keys' requires keys, set them with -k/-keys")
		}
		return parser.NewKeyed(keys...), nil
	case "raw":
		return parser.Passthrough{}, nil
	default:
		return nil, fmt.Errorf("unknown output: '%v', expected one of: text, list, keys, raw", output)
	}
}

func newCompletionChain(backend vendors.Backend, conf config.Configurations, template, output string, keys []string) (*chain.Chain, error) {
	if backend.Completion == nil {
		return nil, fmt.Errorf("backend '%v' has no text completion", backend.Name)
	}
	p, err := outputParser(output, keys)
	if err != nil {
		return nil, err
	}
	return chain.Simple(
		prompt.NewTextTemplate(template),
		llm.NewCompletionModel(backend.Completion, modelOptions(conf)...),
		p,
	)
}

func newChatChain(backend vendors.Backend, conf config.Configurations, template, system, output string, keys []string) (*chain.Chain, error) {
	if backend.Chat == nil {
		return nil, fmt.Errorf("backend '%v' has no chat completion", backend.Name)
	}
	p, err := outputParser(output, keys)
	if err != nil {
		return nil, err
	}
	var skeletons []models.Message
	if system != "" {
		skeletons = append(skeletons, models.SystemMessage(system))
	}
	skeletons = append(skeletons, models.HumanMessage(template))
	return chain.Simple(
		prompt.NewChatTemplate(skeletons...),
		llm.NewChatModel(backend.Chat, modelOptions(conf)...),
		p,
	)
}

func printTrail(w io.Writer, kinds []chain.StepKind, trail []models.Value) {
	for i, v := range trail {
		kind := "stage"
		if i < len(kinds) {
			kind = kinds[i].String()
		}
		fmt.Fprintf(w, "[%d %v] %v\n", i, kind, strings.ReplaceAll(v.String(), "\n", "\\n"))
	}
}

// printValue prints mappings as one key: value per line and sequences as
// one element per line.
func printValue(w io.Writer, v models.Value) {
	if m, ok := v.Mapping(); ok {
		for _, e := range m.Entries() {
			fmt.Fprintf(w, "%v: %v\n", e.Key, e.Value)
		}
		return
	}
	if seq, ok := v.Sequence(); ok {
		for _, e := range seq {
			fmt.Fprintln(w, e)
		}
		return
	}
	fmt.Fprintln(w, v)
}
