package proc

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// EnvPath holds the program search path.
const EnvPath = "PATH"

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// Resolver maps program names to executable files.
type Resolver struct {
	// Fs is the filesystem searched for programs.
	Fs afero.Fs
	// Getenv reads the search path.
	Getenv func(key string) string
}

// NewOSResolver searches the host filesystem using the process environment.
func NewOSResolver() *Resolver {
	return &Resolver{
		Fs:     afero.NewOsFs(),
		Getenv: os.Getenv,
	}
}

func (r *Resolver) isExecutable(file string) error {
	info, err := r.Fs.Stat(file)
	if err != nil {
		return err
	}
	if m := info.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath finds the executable for name. Names containing a slash are used
// as-is, others are searched for in each $PATH directory in order; an empty
// element means the current directory.
func (r *Resolver) LookPath(name string) (string, error) {
	if name == "" {
		return "", ErrNotFound
	}

	if strings.Contains(name, "/") {
		if err := r.isExecutable(name); err != nil {
			return "", err
		}
		return name, nil
	}

	for _, dir := range filepath.SplitList(r.Getenv(EnvPath)) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if !filepath.IsAbs(candidate) && !strings.HasPrefix(candidate, ".") {
			candidate = "." + string(filepath.Separator) + candidate
		}
		if err := r.isExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}
