package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/baalimago/lamb/internal"
)

const usage = `lamb - build and run language model chains from the command line

Prerequisites:
  - Set the api key of the backend in use: OPENAI_API_KEY, ANTHROPIC_API_KEY,
    GEMINI_API_KEY, DEEPSEEK_API_KEY, MISTRAL_API_KEY, XAI_API_KEY,
    NOVITA_API_KEY, INCEPTION_API_KEY or HF_API_KEY
  - (Optional) Set OLLAMA_API_KEY if your ollama instance requires one
  - (Optional) Set LAMB_CONFIG_HOME to move the config directory

Usage: lamb [flags] <command>

Flags:
  -b, -backend string          Set the backend. (default '%v', one of: %v)
  -m, -model string            Set the model of the backend.
  -t, -template string         Set the prompt template. The input is bound to {text}.
  -sp, -system-prompt string   Set the system prompt of the chat command.
  -o, -output string           Set the output parser: text, list, keys or raw.
  -k, -keys string             Comma separated keys for the keys output parser.
  -s, -stop string             Comma separated stop sequences. Escape a literal comma as '\,'.
  -u, -url string              Set the endpoint url of the backend.
  -var name=value              Bind a template placeholder. May be repeated.
  -trail bool                  Print the value after every step.

Commands:
  h|help                       Display this help message
  v|version                    Print the version
  q|query <text>               Format the template, complete it as text and parse the output
  c|chat <text>                Format system prompt and template as a chat, and parse the reply
  p|pipeline <file> [text]     Run the stages of a json pipeline file on a shared context

Examples:
  - lamb q "What is the capital of France?"
  - lamb -t "Translate to French: {text}" q "good morning"
  - lamb -b gemini -sp "Answer in one word" c "Best pet?"
  - lamb -o keys -k city,country q "Paris France"
  - lamb -var lang=German -t "Translate to {lang}: {text}" q hello
  - echo "some text" | lamb -t "Summarize: {text}" q
  - lamb -trail p pipeline.json
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	querier, err := internal.Setup(ctx, usage, args)
	if err != nil {
		if errors.Is(err, internal.ErrUserInitiatedExit) {
			return 0
		}
		ancli.PrintErr(fmt.Sprintf("failed to setup: %v\n", err))
		return 1
	}
	go func() { shutdown.Monitor(cancel) }()
	if err := querier.Query(ctx); err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
		return 1
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye!\n")
	}
	return 0
}
