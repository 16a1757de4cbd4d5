/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/costela/highslp"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	flagEngine    = "engine"
	flagHighs     = "highs"
	flagJobs      = "jobs"
	flagWorkDir   = "workdir"
	flagKeepFiles = "keep-files"
	flagTimeLimit = "time-limit"
	flagOption    = "option"
)

// Config holds the settings of a solve run. The YAML keys mirror the
// command-line flags; flags given explicitly take precedence.
type Config struct {
	Engine    string            `yaml:"engine"`
	Highs     string            `yaml:"highs"`
	Format    string            `yaml:"format"`
	Jobs      int               `yaml:"jobs"`
	WorkDir   string            `yaml:"workdir"`
	KeepFiles bool              `yaml:"keep-files"`
	TimeLimit float64           `yaml:"time-limit"`
	Options   map[string]string `yaml:"options"`
}

func defaultConfig() *Config {
	return &Config{
		Engine:  defaultEngine(),
		Highs:   "highs",
		Format:  formatJSON,
		Jobs:    runtime.NumCPU(),
		Options: make(map[string]string),
	}
}

// loadConfig builds the effective configuration: defaults, then the
// --config file if any, then explicitly set flags.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	cfg := defaultConfig()

	if path, _ := flags.GetString(flagConfig); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := cfg.applyFlags(flags); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func (cfg *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if cfg.Options == nil {
		cfg.Options = make(map[string]string)
	}

	return nil
}

func (cfg *Config) applyFlags(flags *pflag.FlagSet) error {
	var err error

	set := func(name string, apply func() error) {
		if err == nil && flags.Lookup(name) != nil && flags.Changed(name) {
			err = apply()
		}
	}

	set(flagEngine, func() (e error) { cfg.Engine, e = flags.GetString(flagEngine); return })
	set(flagHighs, func() (e error) { cfg.Highs, e = flags.GetString(flagHighs); return })
	set(flagFormat, func() (e error) { cfg.Format, e = flags.GetString(flagFormat); return })
	set(flagJobs, func() (e error) { cfg.Jobs, e = flags.GetInt(flagJobs); return })
	set(flagWorkDir, func() (e error) { cfg.WorkDir, e = flags.GetString(flagWorkDir); return })
	set(flagKeepFiles, func() (e error) { cfg.KeepFiles, e = flags.GetBool(flagKeepFiles); return })
	set(flagTimeLimit, func() (e error) { cfg.TimeLimit, e = flags.GetFloat64(flagTimeLimit); return })
	set(flagOption, func() error {
		pairs, e := flags.GetStringArray(flagOption)
		if e != nil {
			return e
		}
		for _, pair := range pairs {
			name, value, ok := strings.Cut(pair, "=")
			if !ok || strings.TrimSpace(name) == "" {
				return fmt.Errorf("invalid --%s %q: want name=value", flagOption, pair)
			}
			cfg.Options[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
		return nil
	})

	return err
}

func (cfg *Config) validate() error {
	switch cfg.Format {
	case formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q", cfg.Format)
	}
	if _, ok := engines[cfg.Engine]; !ok {
		return fmt.Errorf("unknown engine %q (available: %s)", cfg.Engine, strings.Join(engineNames(), ", "))
	}
	if cfg.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", cfg.Jobs)
	}
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative, got %g", cfg.TimeLimit)
	}

	return nil
}

// solverOptions turns the configuration into solver options. Values of
// --option are handed over as text; the engine converts them by the
// option's own type.
func (cfg *Config) solverOptions() []highslp.Option {
	var opts []highslp.Option

	if cfg.WorkDir != "" {
		opts = append(opts, highslp.WithWorkDir(cfg.WorkDir))
	}
	if cfg.KeepFiles {
		opts = append(opts, highslp.WithKeepFiles(true))
	}
	if cfg.TimeLimit > 0 {
		opts = append(opts, highslp.WithTimeLimit(cfg.TimeLimit))
	}

	for name, value := range cfg.Options {
		opts = append(opts, highslp.WithOption(name, value))
	}

	return opts
}
