// SPDX-License-Identifier: Apache-2.0

// Package config holds the simulator's run configuration: the knobs a
// single invocation of the event loop needs (break time, speed, seed,
// overrun-break policy, task-system and checkpoint paths, log level and
// format), bound to CLI flags via viper the way the CLI layer in the wider
// pack does it. Environment variables are not read.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/edfsim/edfsim/pkg/logging"
)

// Config holds one run's configuration.
type Config struct {
	// TaskSystemPath is the path to the flat numeric task-system file.
	TaskSystemPath string

	// CheckpointPath is the path to read an initial checkpoint from (if
	// Resume is set) and to write one to on termination.
	CheckpointPath string

	// Resume, when true, loads CheckpointPath before running instead of
	// generating phase 0 jobs from scratch.
	Resume bool

	// Seed seeds the random stream. Zero is a valid seed.
	Seed uint32

	// BreakTime is the event-loop's virtual-time budget; Run returns once
	// the clock would exceed it.
	BreakTime int64

	// Speed is the processor speed passed to Run: work units completed per
	// time tick. With zero, no work is completed.
	Speed int64

	// OverrunBreak, when true, makes Run stop on the first detected
	// overrun instead of only on a deadline miss or budget exhaustion.
	OverrunBreak bool

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogFormat is one of "text", "json".
	LogFormat string
}

// NewDefault returns a configuration with the simulator's defaults.
func NewDefault() *Config {
	return &Config{
		TaskSystemPath: "tasksystem.json",
		CheckpointPath: "checkpoint.json",
		Resume:         false,
		Seed:           1,
		BreakTime:      0,
		Speed:          0,
		OverrunBreak:   false,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load populates fields from v, which the caller has already bound to CLI
// flags (see cmd/edfsim-cli).
func (c *Config) Load(v *viper.Viper) {
	if p := v.GetString("tasksystem"); p != "" {
		c.TaskSystemPath = p
	}
	if p := v.GetString("checkpoint"); p != "" {
		c.CheckpointPath = p
	}
	c.Resume = v.GetBool("resume")
	c.Seed = uint32(v.GetUint("seed"))
	c.BreakTime = v.GetInt64("breaktime")
	c.Speed = v.GetInt64("speed")
	c.OverrunBreak = v.GetBool("overrun-break")
	if lvl := v.GetString("log-level"); lvl != "" {
		c.LogLevel = lvl
	}
	if fmt := v.GetString("log-format"); fmt != "" {
		c.LogFormat = fmt
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.TaskSystemPath == "" {
		return ErrMissingTaskSystemPath
	}
	if c.BreakTime < 0 {
		return ErrInvalidBreakTime
	}
	if c.Speed < 0 {
		return ErrInvalidSpeed
	}
	return nil
}

// LoggingConfig derives a logging.Config from the run configuration and
// run id.
func (c *Config) LoggingConfig(runID string) *logging.Config {
	lc := logging.DefaultConfig()
	lc.RunID = runID
	switch c.LogFormat {
	case "json":
		lc.Format = logging.FormatJSON
	default:
		lc.Format = logging.FormatText
	}
	switch c.LogLevel {
	case "debug":
		lc.Level = -4
	case "warn":
		lc.Level = 4
	case "error":
		lc.Level = 8
	default:
		lc.Level = 0
	}
	return lc
}

var (
	ErrMissingTaskSystemPath = fmt.Errorf("config: tasksystem path must not be empty")
	ErrInvalidBreakTime      = fmt.Errorf("config: breaktime must not be negative")
	ErrInvalidSpeed          = fmt.Errorf("config: speed must not be negative")
)
