package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/lamb/internal/config"
	"github.com/baalimago/lamb/internal/logging"
	"github.com/baalimago/lamb/internal/vendors"
)

// ErrUserInitiatedExit is returned once help or version has been printed.
var ErrUserInitiatedExit = errors.New("user initiated exit")

// Querier runs the chain selected on the command line.
type Querier interface {
	Query(ctx context.Context) error
}

type Mode int

const (
	HELP Mode = iota
	QUERY
	CHAT
	PIPELINE
	VERSION
)

func getModeFromArgs(cmd string) (Mode, error) {
	switch cmd {
	case "query", "q":
		return QUERY, nil
	case "chat", "c":
		return CHAT, nil
	case "pipeline", "p":
		return PIPELINE, nil
	case "help", "h":
		return HELP, nil
	case "version", "v":
		return VERSION, nil
	default:
		return HELP, fmt.Errorf("unknown command: '%s'", cmd)
	}
}

// Setup parses args, loads the config and builds the querier of the
// command. Help and version print and return ErrUserInitiatedExit.
func Setup(ctx context.Context, usage string, args []string) (Querier, error) {
	flagSet, rest, err := parseFlags(args)
	if err != nil {
		return nil, err
	}
	mode := HELP
	if len(rest) > 0 {
		mode, err = getModeFromArgs(rest[0])
		if err != nil {
			return nil, err
		}
	}
	switch mode {
	case HELP:
		fmt.Printf(usage, config.Default.Backend, strings.Join(vendors.Names, ", "))
		return nil, ErrUserInitiatedExit
	case VERSION:
		if err := printVersion(os.Stdout); err != nil {
			return nil, err
		}
		return nil, ErrUserInitiatedExit
	}

	conf, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(&conf, flagSet)
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("config post flag override: %v\n", debug.IndentedJsonFmt(conf)))
	}

	_, logCloser, err := logging.Init(conf.LogFile, conf.LogLevel, conf.LogFormat)
	if err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to setup log file, logging is disabled: %v\n", err))
	}

	backend, err := vendors.Select(conf.Backend, vendors.Options{
		Model:            conf.Model,
		URL:              conf.URL,
		FrequencyPenalty: conf.FrequencyPenalty,
		PresencePenalty:  conf.PresencePenalty,
	})
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to select backend: %w", err)
	}

	var q Querier
	switch mode {
	case QUERY, CHAT:
		q, err = newChainQuerier(mode, backend, conf, flagSet, rest[1:], os.Stdin)
	case PIPELINE:
		q, err = newPipelineQuerier(backend, conf, flagSet, rest[1:])
	}
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	return &closingQuerier{Querier: q, closer: logCloser}, nil
}

type closingQuerier struct {
	Querier
	closer io.Closer
}

func (c *closingQuerier) Query(ctx context.Context) error {
	defer c.closer.Close()
	return c.Querier.Query(ctx)
}
