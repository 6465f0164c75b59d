package chain

import (
	"github.com/baalimago/lamb/pkg/llm"
	"github.com/baalimago/lamb/pkg/parser"
	"github.com/baalimago/lamb/pkg/prompt"
)

type StepKind int

const (
	stepInvalid StepKind = iota
	StepFormatter
	StepModel
	StepParser
)

func (k StepKind) String() string {
	switch k {
	case StepFormatter:
		return "formatter"
	case StepModel:
		return "model"
	case StepParser:
		return "parser"
	default:
		return "invalid"
	}
}

// Step is exactly one of formatter, model or parser. Construct it with
// Format, Invoke or Parse; the zero Step is rejected by New.
type Step struct {
	kind      StepKind
	formatter prompt.Template
	model     llm.LanguageModel
	parser    parser.Parser
}

func Format(t prompt.Template) Step {
	return Step{kind: StepFormatter, formatter: t}
}

func Invoke(m llm.LanguageModel) Step {
	return Step{kind: StepModel, model: m}
}

func Parse(p parser.Parser) Step {
	return Step{kind: StepParser, parser: p}
}

func (s Step) Kind() StepKind {
	return s.kind
}

func (s Step) valid() bool {
	switch s.kind {
	case StepFormatter:
		return s.formatter != nil
	case StepModel:
		return s.model != nil
	case StepParser:
		return s.parser != nil
	}
	return false
}
