package shell

import (
	"errors"
	"fmt"
	"strings"
)

// PipeSeparator joins the stages of a pipeline.
const PipeSeparator = "|"

var (
	// ErrEmptyStage is returned when a pipeline has a stage with no words,
	// e.g. "ls |".
	ErrEmptyStage = errors.New("empty command in pipeline")
)

// Pipeline is a chain of commands where each stage's standard output feeds
// the next stage's standard input.
type Pipeline struct {
	Stages []*Command
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.Stages)
}

func (p *Pipeline) String() string {
	var parts []string
	for _, stage := range p.Stages {
		parts = append(parts, stage.String())
	}
	return strings.Join(parts, " | ")
}

// IsPipeline reports whether the line should run as a pipeline.
func IsPipeline(line string) bool {
	return strings.Contains(line, PipeSeparator)
}

// SplitPipeline splits line at every pipe character and tokenizes each
// segment independently. Background markers inside a segment are removed and
// ignored: pipelines always run in the foreground.
func SplitPipeline(line string) (*Pipeline, error) {
	out := &Pipeline{}
	for i, segment := range strings.Split(line, PipeSeparator) {
		cmd, _, err := ParseString(segment)
		if err != nil {
			return nil, err
		}
		if cmd.IsEmpty() {
			return nil, fmt.Errorf("stage %d: %w", i+1, ErrEmptyStage)
		}
		out.Stages = append(out.Stages, cmd)
	}

	return out, nil
}
