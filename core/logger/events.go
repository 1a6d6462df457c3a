package logger

// LogEntry is a single record in the event log. Exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	RunCommand        *RunCommand        `json:"run_command,omitempty"`
	UnknownCommand    *UnknownCommand    `json:"unknown_command,omitempty"`
	Builtin           *Builtin           `json:"builtin,omitempty"`
	Pipeline          *Pipeline          `json:"pipeline,omitempty"`
	CommandExit       *CommandExit       `json:"command_exit,omitempty"`
	InvalidInvocation *InvalidInvocation `json:"invalid_invocation,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	setOn(le *LogEntry)
}

// RunCommand is recorded when an external program is started.
type RunCommand struct {
	Command    []string `json:"command"`
	Pid        int      `json:"pid"`
	Background bool     `json:"background,omitempty"`
}

func (e *RunCommand) setOn(le *LogEntry) { le.RunCommand = e }

// UnknownCommand is recorded when a program can't be found.
type UnknownCommand struct {
	Command []string `json:"command"`
}

func (e *UnknownCommand) setOn(le *LogEntry) { le.UnknownCommand = e }

// Builtin is recorded when a builtin runs.
type Builtin struct {
	Command []string `json:"command"`
}

func (e *Builtin) setOn(le *LogEntry) { le.Builtin = e }

// Pipeline is recorded before the stages of a pipeline are started.
type Pipeline struct {
	Stages [][]string `json:"stages"`
}

func (e *Pipeline) setOn(le *LogEntry) { le.Pipeline = e }

// CommandExit is recorded when a child process is reaped.
type CommandExit struct {
	Pid      int  `json:"pid"`
	ExitCode int  `json:"exit_code"`
	Reaped   bool `json:"reaped,omitempty"`
}

func (e *CommandExit) setOn(le *LogEntry) { le.CommandExit = e }

// InvalidInvocation is recorded when a builtin is called incorrectly or
// fails.
type InvalidInvocation struct {
	Command []string `json:"command"`
	Error   string   `json:"error"`
}

func (e *InvalidInvocation) setOn(le *LogEntry) { le.InvalidInvocation = e }
