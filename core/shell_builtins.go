package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephlewis42/myshell/core/logger"
	"github.com/josephlewis42/myshell/core/shell"
	"github.com/pborman/getopt/v2"
)

// BuiltinResult tells the session what to do after a builtin ran.
type BuiltinResult int

const (
	// Handled means the builtin did all its work.
	Handled BuiltinResult = iota
	// RequestHistoryDump asks the session to print its history.
	RequestHistoryDump
	// RequestHistoryClear asks the session to forget its history.
	RequestHistoryClear
	// Terminate asks the session to end.
	Terminate
)

// ErrUnknownBuiltin is returned when a command that isn't a builtin reaches
// the dispatcher.
var ErrUnknownBuiltin = errors.New("unknown builtin command")

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[shell.Builtin]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) BuiltinResult
}

type ShellBuiltinFunc func(s *Shell, args []string) BuiltinResult

func (f ShellBuiltinFunc) Main(s *Shell, args []string) BuiltinResult {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Dispatch runs the builtin cmd was classified as. Builtins run inside the
// interpreter process, they're never forked.
func Dispatch(s *Shell, cmd *shell.Command) (BuiltinResult, error) {
	builtin, ok := AllBuiltins[cmd.Builtin]
	if !ok || cmd.IsEmpty() {
		return Handled, fmt.Errorf("%w: %q", ErrUnknownBuiltin, cmd.Name())
	}

	s.record(&logger.Builtin{Command: cmd.Args})
	return builtin.Main(s, cmd.Args), nil
}

// invalidInvocation reports a failed builtin on stderr.
func (s *Shell) invalidInvocation(args []string, err error) {
	fmt.Fprintf(s.Stdio.Err, "%s: %v\n", args[0], err)
	s.record(&logger.InvalidInvocation{Command: args, Error: err.Error()})
}

// Bye ends the session.
func Bye(s *Shell, args []string) BuiltinResult {
	return Terminate
}

// Dir prints the working directory.
func Dir(s *Shell, args []string) BuiltinResult {
	cwd, err := os.Getwd()
	if err != nil {
		s.invalidInvocation(args, err)
		return Handled
	}

	fmt.Fprintf(s.Stdio.Out, "Dir: %s\n", cwd)
	return Handled
}

// Cd changes the working directory, to $HOME if no directory is given.
func Cd(s *Shell, args []string) BuiltinResult {
	switch len(args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			s.invalidInvocation(args, err)
			return Handled
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			s.invalidInvocation(args, err)
		}
	default:
		s.invalidInvocation(args, errors.New("too many arguments"))
	}
	return Handled
}

// History asks the session to print or clear its history. The history itself
// belongs to the session.
func History(s *Shell, args []string) BuiltinResult {
	opts := getopt.New()
	clearOpt := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Stdio.Err
		if err != nil {
			s.record(&logger.InvalidInvocation{Command: args, Error: err.Error()})
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return Handled
	}

	if *clearOpt {
		return RequestHistoryClear
	}
	return RequestHistoryDump
}

// JobControl backs bg and fg. Jobs can't be suspended or resumed, so both
// are accepted and do nothing.
func JobControl(s *Shell, args []string) BuiltinResult {
	return Handled
}

func init() {
	AllBuiltins[shell.Bye] = ShellBuiltinFunc(Bye)
	AllBuiltins[shell.Dir] = ShellBuiltinFunc(Dir)
	AllBuiltins[shell.Cd] = ShellBuiltinFunc(Cd)
	AllBuiltins[shell.History] = ShellBuiltinFunc(History)
	AllBuiltins[shell.Bg] = ShellBuiltinFunc(JobControl)
	AllBuiltins[shell.Fg] = ShellBuiltinFunc(JobControl)
}
