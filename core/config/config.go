package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	Prompt        string `json:"prompt"`
	MaxLineLength int    `json:"max_line_length" validate:"gte=1"`

	HistorySize int    `json:"history_size" validate:"gte=1"`
	HistoryFile string `json:"history_file"`

	EventLog string `json:"event_log"`

	ReapBackground      bool `json:"reap_background"`
	ExitOnInternalError bool `json:"exit_on_internal_error"`

	MaxPipelineStages int `json:"max_pipeline_stages" validate:"gte=2"`

	Color string `json:"color" validate:"oneof=always auto never"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// Fs returns the filesystem files named in the configuration live on.
func (c *Configuration) Fs() afero.Fs {
	return c.fs()
}

// Dir returns the directory relative paths in the configuration are
// resolved against.
func (c *Configuration) Dir() string {
	if c.configurationDir == "" {
		return "."
	}
	return c.configurationDir
}

// ResolvePath resolves a path from the configuration against Dir.
func (c *Configuration) ResolvePath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir(), name)
}

// HistoryPath returns the path of the persistent history, or "" if history
// is kept in memory only.
func (c *Configuration) HistoryPath() string {
	return c.ResolvePath(c.HistoryFile)
}

// HasEventLog reports whether session events should be recorded.
func (c *Configuration) HasEventLog() bool {
	return c.EventLog != ""
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.ResolvePath(c.EventLog), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.ResolvePath(c.EventLog), os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration with relative paths resolved
// against dir on fsys.
func Default(fsys afero.Fs, dir string) *Configuration {
	out := defaultConfig()
	out.configFs = fsys
	out.configurationDir = dir
	return out
}

// DefaultConfigData returns the contents of the built-in config.yaml.
func DefaultConfigData() []byte {
	return append([]byte(nil), defaultConfigData...)
}
