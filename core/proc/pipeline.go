package proc

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/josephlewis42/myshell/core/shell"
	"golang.org/x/sync/errgroup"
)

type pipeEnds struct {
	r, w *os.File
}

type pipeSet []pipeEnds

func newPipeSet(n int) (pipeSet, error) {
	var out pipeSet
	for i := 0; i < n; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("pipe: %w", err)
		}
		out = append(out, pipeEnds{r: r, w: w})
	}
	return out, nil
}

// Close closes every end still held by the parent. Calling it again is a
// no-op.
func (ps pipeSet) Close() {
	for i := range ps {
		if ps[i].r != nil {
			ps[i].r.Close()
			ps[i].r = nil
		}
		if ps[i].w != nil {
			ps[i].w.Close()
			ps[i].w = nil
		}
	}
}

// LaunchPipeline runs every stage of p concurrently with stage i's standard
// output connected to stage i+1's standard input. It returns once all the
// started stages have exited, pipelines never run in the background.
//
// A stage whose program can't be found writes its error to its own standard
// output, which for every stage but the last is the pipe to the next one.
func (l *Launcher) LaunchPipeline(p *shell.Pipeline) ([]Outcome, error) {
	n := p.Len()
	if n == 0 {
		return nil, nil
	}

	pipes, err := newPipeSet(n - 1)
	if err != nil {
		return nil, err
	}
	defer pipes.Close()

	outcomes := make([]Outcome, n)
	started := make([]*exec.Cmd, n)

	var launchErr error
	for i, stage := range p.Stages {
		var stdin = l.Stdio.In
		if i > 0 {
			stdin = pipes[i-1].r
		}
		var stdout = l.Stdio.Out
		if i < n-1 {
			stdout = pipes[i].w
		}

		child, err := l.start(stage, stdin, stdout, l.Stdio.Err)
		if err != nil {
			launchErr = err
			break
		}
		if child == nil {
			outcomes[i].NotFound = true
			continue
		}
		started[i] = child
		outcomes[i].Pid = child.Process.Pid
	}

	// The children hold their own copies now. Keeping ours open would stop
	// readers from ever seeing end of file.
	pipes.Close()

	var g errgroup.Group
	for i, child := range started {
		if child == nil {
			continue
		}
		i, child := i, child
		g.Go(func() error {
			code, err := exitStatus(child.Wait())
			outcomes[i].ExitCode = code
			return err
		})
	}
	waitErr := g.Wait()

	if launchErr != nil {
		return outcomes, launchErr
	}
	return outcomes, waitErr
}
