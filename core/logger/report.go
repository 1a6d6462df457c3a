package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries int        `json:"unknown_log_entries,omitempty"`

	RunCommand        RunCommandReport        `json:"run_command_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	Builtin           BuiltinReport           `json:"builtin_report"`
	Pipeline          PipelineReport          `json:"pipeline_report"`
	CommandExit       CommandExitReport       `json:"command_exit_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch {
	case le.RunCommand != nil:
		r.RunCommand.update(le.RunCommand)
	case le.UnknownCommand != nil:
		r.UnknownCommand.update(le.UnknownCommand)
	case le.Builtin != nil:
		r.Builtin.update(le.Builtin)
	case le.Pipeline != nil:
		r.Pipeline.update(le.Pipeline)
	case le.CommandExit != nil:
		r.CommandExit.update(le.CommandExit)
	case le.InvalidInvocation != nil:
		r.InvalidInvocation.update(le.InvalidInvocation)
	default:
		r.InvalidEntries++
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Number of commands started in the background.
	Background int `json:"background"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.Background {
		r.Background++
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(logEntry *UnknownCommand) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}
}

type BuiltinReport struct {
	BuiltinNames StrCounter `json:"builtin_names"`
}

func (r *BuiltinReport) update(b *Builtin) {
	if len(b.Command) > 0 {
		r.BuiltinNames.Increment(b.Command[0])
	}
}

type PipelineReport struct {
	Count int `json:"count"`
	// Pipelines keyed by their command names, e.g. "ls | wc".
	Shapes StrCounter `json:"shapes"`
}

func (r *PipelineReport) update(p *Pipeline) {
	r.Count++

	var names []string
	for _, stage := range p.Stages {
		if len(stage) > 0 {
			names = append(names, stage[0])
		}
	}
	r.Shapes.Increment(strings.Join(names, " | "))
}

type CommandExitReport struct {
	ExitCodes StrCounter `json:"exit_codes"`
	Reaped    int        `json:"reaped"`
}

func (r *CommandExitReport) update(e *CommandExit) {
	r.ExitCodes.Increment(fmt.Sprintf("%d", e.ExitCode))
	if e.Reaped {
		r.Reaped++
	}
}

type InvalidInvocationReport struct {
	Invocations *PathCounter `json:"invocations"`
}

func (r *InvalidInvocationReport) update(logEntry *InvalidInvocation) {
	if r.Invocations == nil {
		r.Invocations = NewPathCounter("command", "error")
	}
	if len(logEntry.Command) > 0 {
		r.Invocations.Increment(logEntry.Command[0], logEntry.Error)
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// Len returns the number of distinct keys.
func (s *StrCounter) Len() int {
	return len(s.internal)
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of times each combination of column values
// was seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given column values.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
