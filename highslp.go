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

/*

highslp solves linear programming models written in the CPLEX LP file
format with the HiGHS solver and returns the solver's pretty-printed
solution in structured form.

A model is solved like this:

	package main

	import (
		"fmt"
		"log"

		"github.com/costela/highslp"
		"github.com/costela/highslp/highs"
	)

	const model = `
	Maximize
	  obj: x1 + 2 x2
	Subject To
	  c1: x1 + x2 <= 10
	Bounds
	  0 <= x1 <= 4
	End
	`

	func main() {
		solver, err := highslp.NewSolver(highs.New())
		if err != nil {
			log.Fatal(err)
		}

		result, err := solver.Solve(model)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("status = %s\n", result.Status)
		fmt.Printf("x2 = %f\n", result.Columns["x2"].Primal())
		// ⋮
	}

Engines are pluggable: the highs subpackage links libhighs through cgo,
and the highsexec subpackage drives the highs command-line binary.

*/
package highslp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
)

/* Types */

// Solver holds the configuration shared by every solve call. It carries no
// per-call state, so a single Solver may be used from several goroutines.
type Solver struct {
	engine    Engine
	logger    Logger
	quiet     bool
	workDir   string
	keepFiles bool

	intOptions    map[string]int
	boolOptions   map[string]bool
	floatOptions  map[string]float64
	stringOptions map[string]string
	textOptions   map[string]string
}

// ContextRunner is implemented by instances whose Run can be interrupted
// through a context.
type ContextRunner interface {
	RunContext(ctx context.Context) ReturnCode
}

const (
	actionReadModel     = "read LP model (see http://web.mit.edu/lpsolve/doc/CPLEX-format.htm)"
	actionSetOption     = "set option"
	actionSolve         = "solve the problem"
	actionWriteSolution = "write and extract solution"
)

/* Solver related functions */

// NewSolver instantiates a Solver backed by the given engine.
func NewSolver(engine Engine, opts ...Option) (*Solver, error) {
	if engine == nil {
		return nil, errors.New("nil engine")
	}

	solver := &Solver{
		engine:        engine,
		logger:        noopLogger{},
		quiet:         true,
		workDir:       os.TempDir(),
		intOptions:    make(map[string]int),
		boolOptions:   make(map[string]bool),
		floatOptions:  make(map[string]float64),
		stringOptions: make(map[string]string),
		textOptions:   make(map[string]string),
	}

	for _, opt := range opts {
		if err := opt(solver); err != nil {
			return nil, fmt.Errorf("applying solver option: %w", err)
		}
	}

	return solver, nil
}

// Solve solves the given LP model and parses the solver's solution report.
// Either a complete Result or an error is returned, never both.
func (s *Solver) Solve(model string) (*Result, error) {
	return s.SolveWithContext(context.Background(), model)
}

// SolveWithContext wraps Solve() with a context. The context is checked
// between solver calls; engines implementing ContextRunner also abort a
// running solve when it is cancelled. The context error is returned in
// that case.
func (s *Solver) SolveWithContext(ctx context.Context, model string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := newInvocationFiles(s.workDir)
	if !s.keepFiles {
		defer files.remove()
	}

	if err := files.writeModel(model); err != nil {
		return nil, err
	}

	inst, err := s.engine.NewInstance()
	if err != nil {
		return nil, fmt.Errorf("unable to create solver instance: %w", err)
	}
	defer inst.Close()

	s.logger.Print("highslp: reading model ", files.model)
	if err := checkCode(inst.ReadModel(files.model), actionReadModel); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.configure(inst); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Print("highslp: running solver")
	if err := s.run(ctx, inst); err != nil {
		return nil, err
	}

	status := inst.ModelStatusText(inst.ModelStatus())
	s.logger.Print("highslp: model status ", status)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkCode(inst.WriteSolutionPretty(files.solution), actionWriteSolution); err != nil {
		return nil, err
	}

	lines, err := readReportFile(files.solution)
	if err != nil {
		return nil, err
	}

	return ParseReport(lines, status)
}

func (s *Solver) run(ctx context.Context, inst Instance) error {
	var code ReturnCode
	if runner, ok := inst.(ContextRunner); ok {
		code = runner.RunContext(ctx)
	} else {
		code = inst.Run()
	}

	// a failure caused by cancellation is reported as such
	if err := ctx.Err(); err != nil {
		return err
	}

	return checkCode(code, actionSolve)
}

// configure applies the solver options in a stable order: booleans,
// integers, floats, strings, then options given as text, each sorted by
// name. Without a logger the
// solver output is silenced; explicit options override that default.
func (s *Solver) configure(inst Instance) error {
	bools := make(map[string]bool, len(s.boolOptions)+1)
	ints := make(map[string]int, len(s.intOptions)+1)

	if s.quiet {
		bools["output_flag"] = false
		ints["log_dev_level"] = 0
	} else if li, ok := inst.(LoggingInstance); ok {
		if err := checkCode(li.SetLogger(s.logger), actionSetOption+" logger"); err != nil {
			return err
		}
	}

	for k, v := range s.boolOptions {
		bools[k] = v
	}
	for k, v := range s.intOptions {
		ints[k] = v
	}

	for _, name := range sortedKeys(bools) {
		if err := checkCode(inst.SetBoolOption(name, bools[name]), actionSetOption+" "+name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(ints) {
		if err := checkCode(inst.SetIntOption(name, ints[name]), actionSetOption+" "+name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(s.floatOptions) {
		if err := checkCode(inst.SetFloatOption(name, s.floatOptions[name]), actionSetOption+" "+name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(s.stringOptions) {
		if err := checkCode(inst.SetStringOption(name, s.stringOptions[name]), actionSetOption+" "+name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(s.textOptions) {
		if err := checkCode(inst.SetOption(name, s.textOptions[name]), actionSetOption+" "+name); err != nil {
			return err
		}
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
