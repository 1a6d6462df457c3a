package proc

import (
	"os/exec"
	"sort"
	"sync"
)

// Reaper waits on background children so they don't linger as zombies. Each
// child gets its own goroutine; the prompt is never blocked.
type Reaper struct {
	// OnExit, if set, is called from the reaping goroutine after a child exits.
	OnExit func(pid, exitCode int)

	mu   sync.Mutex
	jobs map[int]*exec.Cmd
	wg   sync.WaitGroup
}

// NewReaper creates an empty reaper.
func NewReaper() *Reaper {
	return &Reaper{jobs: make(map[int]*exec.Cmd)}
}

// Watch takes ownership of a started child. The child must not be waited by
// anyone else.
func (r *Reaper) Watch(child *exec.Cmd) {
	pid := child.Process.Pid

	r.mu.Lock()
	r.jobs[pid] = child
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		code, _ := exitStatus(child.Wait())

		r.mu.Lock()
		delete(r.jobs, pid)
		r.mu.Unlock()

		if r.OnExit != nil {
			r.OnExit(pid, code)
		}
	}()
}

// Running lists the PIDs of children that haven't exited yet.
func (r *Reaper) Running() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []int
	for pid := range r.jobs {
		out = append(out, pid)
	}
	sort.Ints(out)
	return out
}

// Wait blocks until every watched child has been reaped.
func (r *Reaper) Wait() {
	r.wg.Wait()
}
