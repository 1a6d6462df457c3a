package proc

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josephlewis42/myshell/core/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes made by
// background children and the launcher.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLauncher(reaper *Reaper) (*Launcher, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	return NewLauncher(Stdio{Out: stdout, Err: stderr}, reaper), stdout, stderr
}

func command(args ...string) *shell.Command {
	return &shell.Command{Args: args}
}

func TestLauncher_Launch(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	out, err := l.Launch(command("echo", "hello", "world"), false)

	require.NoError(t, err)
	assert.Equal(t, "hello world\n", stdout.String())
	assert.Greater(t, out.Pid, 0)
	assert.Equal(t, 0, out.ExitCode)
	assert.False(t, out.Background)
	assert.False(t, out.NotFound)
}

func TestLauncher_Launch_exitCode(t *testing.T) {
	l, _, _ := newTestLauncher(nil)

	out, err := l.Launch(command("sh", "-c", "exit 3"), false)

	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
}

func TestLauncher_Launch_argv0(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	_, err := l.Launch(command("sh", "-c", `echo "$0"`), false)

	require.NoError(t, err)
	assert.Equal(t, "sh\n", stdout.String())
}

func TestLauncher_Launch_notFound(t *testing.T) {
	l, stdout, stderr := newTestLauncher(nil)

	out, err := l.Launch(command("no-such-command-1f3a", "arg"), false)

	require.NoError(t, err)
	assert.True(t, out.NotFound)
	assert.Equal(t, 0, out.Pid)
	assert.Equal(t, "no-such-command-1f3a: Command not found\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestLauncher_Launch_empty(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	out, err := l.Launch(command(), false)

	require.NoError(t, err)
	assert.Equal(t, Outcome{}, out)
	assert.Empty(t, stdout.String())
}

func TestLauncher_Launch_background(t *testing.T) {
	reaper := NewReaper()
	exited := make(chan int, 1)
	reaper.OnExit = func(pid, exitCode int) {
		exited <- pid
	}
	l, stdout, _ := newTestLauncher(reaper)

	start := time.Now()
	out, err := l.Launch(command("sleep", "5"), true)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 4*time.Second, "background launch blocked")
	assert.True(t, out.Background)
	assert.Greater(t, out.Pid, 0)
	assert.Equal(t, fmt.Sprintf("Child in background [%d]\n", out.Pid), stdout.String())
	assert.Equal(t, []int{out.Pid}, reaper.Running())

	require.NoError(t, unix.Kill(out.Pid, unix.SIGKILL))
	reaper.Wait()

	assert.Equal(t, out.Pid, <-exited)
	assert.Empty(t, reaper.Running())
}

func TestLauncher_Launch_backgroundWithoutReaper(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	out, err := l.Launch(command("true"), true)

	require.NoError(t, err)
	assert.True(t, out.Background)
	assert.Contains(t, stdout.String(), "Child in background [")
}

func TestLauncher_LaunchPipeline(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	p, err := shell.SplitPipeline("echo hello world | wc -c")
	require.NoError(t, err)

	outcomes, err := l.LaunchPipeline(p)

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "12", strings.TrimSpace(stdout.String()))
	for _, out := range outcomes {
		assert.Greater(t, out.Pid, 0)
		assert.Equal(t, 0, out.ExitCode)
	}
}

func TestLauncher_LaunchPipeline_byteForByte(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	p := &shell.Pipeline{Stages: []*shell.Command{
		command("sh", "-c", `printf 'a\nb\000c\n\n'`),
		command("cat"),
	}}

	_, err := l.LaunchPipeline(p)

	require.NoError(t, err)
	assert.Equal(t, "a\nb\x00c\n\n", stdout.String())
}

func TestLauncher_LaunchPipeline_waitsForAllStages(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	p := &shell.Pipeline{Stages: []*shell.Command{
		command("sh", "-c", "sleep 0.2; echo left"),
		command("sh", "-c", "cat; sleep 0.2; echo right"),
	}}

	_, err := l.LaunchPipeline(p)

	require.NoError(t, err)
	assert.Equal(t, "left\nright\n", stdout.String())
}

func TestLauncher_LaunchPipeline_leftNotFound(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	p, err := shell.SplitPipeline("no-such-command-1f3a | cat")
	require.NoError(t, err)

	outcomes, err := l.LaunchPipeline(p)

	require.NoError(t, err)
	assert.True(t, outcomes[0].NotFound)
	assert.False(t, outcomes[1].NotFound)
	assert.Equal(t, "no-such-command-1f3a: Command not found\n", stdout.String())
}

func TestLauncher_LaunchPipeline_rightNotFound(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	p, err := shell.SplitPipeline("echo hi | no-such-command-1f3a")
	require.NoError(t, err)

	outcomes, err := l.LaunchPipeline(p)

	require.NoError(t, err)
	assert.False(t, outcomes[0].NotFound)
	assert.True(t, outcomes[1].NotFound)
	assert.Equal(t, "no-such-command-1f3a: Command not found\n", stdout.String())
}

func TestLauncher_LaunchPipeline_chain(t *testing.T) {
	l, stdout, _ := newTestLauncher(nil)

	p, err := shell.SplitPipeline("echo abc | cat | wc -c")
	require.NoError(t, err)

	outcomes, err := l.LaunchPipeline(p)

	require.NoError(t, err)
	assert.Len(t, outcomes, 3)
	assert.Equal(t, "4", strings.TrimSpace(stdout.String()))
}

func TestLauncher_LaunchPipeline_empty(t *testing.T) {
	l, _, _ := newTestLauncher(nil)

	outcomes, err := l.LaunchPipeline(&shell.Pipeline{})

	assert.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestIsForkFailure(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"EAGAIN": {&fs.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.EAGAIN}, true},
		"ENOMEM": {&fs.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.ENOMEM}, true},
		"ENOENT": {&fs.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.ENOENT}, false},
		"EACCES": {&fs.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.EACCES}, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, isForkFailure(tc.err))
		})
	}
}

func TestExitStatus(t *testing.T) {
	code, err := exitStatus(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = exitStatus(fs.ErrClosed)
	assert.ErrorIs(t, err, fs.ErrClosed)
	assert.Equal(t, -1, code)
}
