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
	"sort"

	"github.com/costela/highslp"
	"github.com/costela/highslp/highsexec"
)

const (
	engineCgo  = "cgo"
	engineExec = "exec"
)

// engineSpec builds an engine from the configuration and reports the
// version of the HiGHS it drives.
type engineSpec struct {
	new     func(cfg *Config) (highslp.Engine, error)
	version func(cfg *Config) (string, error)
}

var engines = map[string]engineSpec{
	engineExec: {
		new: func(cfg *Config) (highslp.Engine, error) {
			return newExecEngine(cfg), nil
		},
		version: func(cfg *Config) (string, error) {
			return newExecEngine(cfg).Version()
		},
	},
}

func newExecEngine(cfg *Config) *highsexec.Engine {
	return highsexec.New(highsexec.WithBinary(cfg.Highs))
}

// defaultEngine prefers the linked library when it is compiled in.
func defaultEngine() string {
	if _, ok := engines[engineCgo]; ok {
		return engineCgo
	}
	return engineExec
}

func engineNames() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
