// Package proc starts external programs for the interpreter, alone or joined
// by pipes, and collects them when they exit.
package proc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/josephlewis42/myshell/core/shell"
	"golang.org/x/sys/unix"
)

var (
	// ErrForkFailed is returned when the OS refuses to create a new process.
	ErrForkFailed = errors.New("fork() error")
)

// Stdio holds the standard streams handed to child processes.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStdio returns Stdio configured with os.Stdin, os.Stdout, os.Stderr.
func DefaultStdio() Stdio {
	return Stdio{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Outcome describes what happened to one launched command.
type Outcome struct {
	// Pid of the child, zero if none was created.
	Pid int
	// ExitCode of a waited child.
	ExitCode int
	// Background is set if the child was detached instead of waited.
	Background bool
	// NotFound is set if the program couldn't be located or executed.
	NotFound bool
}

// Launcher runs external commands.
type Launcher struct {
	Stdio    Stdio
	Resolver *Resolver

	// Reaper collects background children. If nil, background children are
	// never waited and stay zombies until the interpreter exits.
	Reaper *Reaper
}

// NewLauncher creates a launcher for the host OS.
func NewLauncher(stdio Stdio, reaper *Reaper) *Launcher {
	return &Launcher{
		Stdio:    stdio,
		Resolver: NewOSResolver(),
		Reaper:   reaper,
	}
}

// start creates the child process for cmd. A nil *exec.Cmd with a nil error
// means the program was not found and a message was written to stdout.
func (l *Launcher) start(cmd *shell.Command, stdin io.Reader, stdout, stderr io.Writer) (*exec.Cmd, error) {
	path, err := l.Resolver.LookPath(cmd.Name())
	if err != nil {
		reportNotFound(stdout, cmd)
		return nil, nil
	}

	child := &exec.Cmd{
		Path:   path,
		Args:   cmd.Args,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	if err := child.Start(); err != nil {
		if isForkFailure(err) {
			return nil, fmt.Errorf("%w: %v", ErrForkFailed, err)
		}
		reportNotFound(stdout, cmd)
		return nil, nil
	}

	return child, nil
}

// Launch runs a single external command. Foreground commands are waited for;
// background ones are reported by PID and handed to the Reaper.
func (l *Launcher) Launch(cmd *shell.Command, background bool) (Outcome, error) {
	if cmd.IsEmpty() {
		return Outcome{}, nil
	}

	child, err := l.start(cmd, l.Stdio.In, l.Stdio.Out, l.Stdio.Err)
	switch {
	case err != nil:
		return Outcome{}, err
	case child == nil:
		return Outcome{NotFound: true}, nil
	}

	out := Outcome{Pid: child.Process.Pid, Background: background}
	if background {
		fmt.Fprintf(l.Stdio.Out, "Child in background [%d]\n", out.Pid)
		if l.Reaper != nil {
			l.Reaper.Watch(child)
		}
		return out, nil
	}

	out.ExitCode, err = exitStatus(child.Wait())
	return out, err
}

func reportNotFound(w io.Writer, cmd *shell.Command) {
	fmt.Fprintf(w, "%s: Command not found\n", cmd.Name())
}

func isForkFailure(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM)
}

// exitStatus converts the result of Wait into an exit code. Only failures
// unrelated to the child's own status are returned as errors.
func exitStatus(err error) (int, error) {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}
