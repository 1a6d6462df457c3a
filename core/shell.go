package core

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/logger"
	"github.com/josephlewis42/myshell/core/proc"
	"github.com/josephlewis42/myshell/core/shell"
)

// Shell is one interactive session: it owns the history and reads, parses
// and runs one line per prompt.
type Shell struct {
	Config   *config.Configuration
	Stdio    proc.Stdio
	History  *HistoryLog
	Launcher *proc.Launcher
	Events   *logger.SessionLogger

	reader LineReader
	colors *ColorPrinter

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a session reading from stdio.In. Terminals get line
// editing, other inputs are read line by line with the prompt echoed to
// stdio.Out.
func NewShell(cfg *config.Configuration, stdio proc.Stdio, events *logger.SessionLogger) (*Shell, error) {
	if events == nil {
		events = logger.NewNopLogger().Sessionless()
	}

	reader, err := newLineReader(stdio.In, stdio.Out, stdio.Err, cfg.MaxLineLength, cfg.HistorySize)
	if err != nil {
		return nil, err
	}

	s := &Shell{
		Config:  cfg,
		Stdio:   stdio,
		History: NewHistoryLog(cfg.HistorySize),
		Events:  events,
		reader:  reader,
		colors:  NewColorPrinter(cfg.Color, stdio.Out),
	}

	var reaper *proc.Reaper
	if cfg.ReapBackground {
		reaper = proc.NewReaper()
		reaper.OnExit = func(pid, exitCode int) {
			s.record(&logger.CommandExit{Pid: pid, ExitCode: exitCode, Reaped: true})
		}
	}
	s.Launcher = proc.NewLauncher(stdio, reaper)

	return s, nil
}

func (s *Shell) record(event logger.LogType) {
	if err := s.Events.Record(event); err != nil {
		log.Printf("recording event: %v", err)
	}
}

// Run reads and runs lines until input ends, bye is run, or an internal
// error ends the session. It returns the session's exit status, which is
// always zero.
func (s *Shell) Run() int {
	defer s.reader.Close()

	if path := s.Config.HistoryPath(); path != "" {
		if err := LoadHistoryFile(s.Config.Fs(), s.History, path); err != nil {
			log.Printf("loading history: %v", err)
		}
		for _, line := range s.History.Entries() {
			if err := s.reader.AddHistory(line); err != nil {
				log.Printf("loading history: %v", err)
				break
			}
		}
		defer func() {
			if err := SaveHistoryFile(s.Config.Fs(), s.History, path); err != nil {
				log.Printf("saving history: %v", err)
			}
		}()
	}

	for !s.Quit {
		line, err := s.reader.ReadLine(s.Config.Prompt)

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.Stdio.Out)
			return 0 // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			s.colors.Errorln(s.Stdio.Out, fmt.Errorf("reading input: %w", err))
			return 0

		default:
			line = truncateLine(line, s.Config.MaxLineLength)
			// Recorded before running so history lists itself.
			s.History.Append(line)
			s.RunLine(line)
		}
	}

	return 0
}

// RunLine runs a single line of input.
func (s *Shell) RunLine(line string) {
	if err := s.runLine(line); err != nil {
		s.internalError(err)
	}
}

// internalError reports an error the session can't attribute to the
// command being run. Depending on the configuration the session ends.
func (s *Shell) internalError(err error) {
	s.colors.Errorln(s.Stdio.Out, err)
	if s.Config.ExitOnInternalError {
		s.Quit = true
	}
}

func (s *Shell) runLine(line string) error {
	if shell.IsPipeline(line) {
		return s.runPipeline(line)
	}

	cmd, background, err := shell.ParseString(line)
	switch {
	case err != nil:
		return err
	case cmd.IsEmpty():
		return nil // empty line
	case cmd.Builtin.IsBuiltin():
		return s.runBuiltin(cmd)
	default:
		return s.runProgram(cmd, background)
	}
}

func (s *Shell) runBuiltin(cmd *shell.Command) error {
	result, err := Dispatch(s, cmd)
	if err != nil {
		return err
	}

	switch result {
	case Terminate:
		s.Quit = true
	case RequestHistoryDump:
		return s.History.Dump(s.Stdio.Out)
	case RequestHistoryClear:
		s.History.Clear()
	}
	return nil
}

func (s *Shell) runProgram(cmd *shell.Command, background bool) error {
	out, err := s.Launcher.Launch(cmd, background)
	if err != nil {
		return err
	}

	s.recordOutcome(cmd, out)
	return nil
}

func (s *Shell) recordOutcome(cmd *shell.Command, out proc.Outcome) {
	if out.NotFound {
		s.record(&logger.UnknownCommand{Command: cmd.Args})
		return
	}

	s.record(&logger.RunCommand{Command: cmd.Args, Pid: out.Pid, Background: out.Background})
	if !out.Background {
		s.record(&logger.CommandExit{Pid: out.Pid, ExitCode: out.ExitCode})
	}
}

func (s *Shell) runPipeline(line string) error {
	p, err := shell.SplitPipeline(line)
	if errors.Is(err, shell.ErrEmptyStage) {
		s.colors.Errorln(s.Stdio.Out, shell.ErrEmptyStage)
		return nil
	}
	if err != nil {
		return err
	}

	if limit := s.Config.MaxPipelineStages; p.Len() > limit {
		s.colors.Errorln(s.Stdio.Out, fmt.Sprintf("pipelines support at most %d commands", limit))
		return nil
	}

	var stages [][]string
	for _, stage := range p.Stages {
		stages = append(stages, stage.Args)
	}
	s.record(&logger.Pipeline{Stages: stages})

	outcomes, err := s.Launcher.LaunchPipeline(p)
	for i, out := range outcomes {
		if out.NotFound || out.Pid != 0 {
			s.recordOutcome(p.Stages[i], out)
		}
	}
	return err
}
