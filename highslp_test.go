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

package highslp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `Minimize
  obj: x1
Subject To
  c1: x1 <= 10
End
`

/* Fake engine */

type fakeEngine struct {
	mu        sync.Mutex
	instances []*fakeInstance

	newErr    error
	failStep  string
	failCode  ReturnCode
	report    string
	status    int
	onRun     func()
	onStatus  func()
	logging   bool
	modelSeen []string
}

type fakeInstance struct {
	engine  *fakeEngine
	calls   []string
	model   string
	logger  Logger
	closed  bool
	written string
}

type loggingFakeInstance struct {
	*fakeInstance
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		report: strings.Join(exampleReport, "\n") + "\n",
		status: statusOptimal,
	}
}

func (e *fakeEngine) NewInstance() (Instance, error) {
	if e.newErr != nil {
		return nil, e.newErr
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inst := &fakeInstance{engine: e}
	e.instances = append(e.instances, inst)
	if e.logging {
		return loggingFakeInstance{inst}, nil
	}

	return inst, nil
}

func (e *fakeEngine) last() *fakeInstance {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.instances[len(e.instances)-1]
}

func (inst *fakeInstance) code(step string) ReturnCode {
	inst.calls = append(inst.calls, step)
	if inst.engine.failStep == step {
		return inst.engine.failCode
	}
	return CodeOK
}

func (inst *fakeInstance) ReadModel(path string) ReturnCode {
	data, err := os.ReadFile(path)
	if err != nil {
		return CodeError
	}
	inst.model = string(data)

	inst.engine.mu.Lock()
	inst.engine.modelSeen = append(inst.engine.modelSeen, path)
	inst.engine.mu.Unlock()

	return inst.code("ReadModel")
}

func (inst *fakeInstance) SetIntOption(name string, value int) ReturnCode {
	return inst.code(fmt.Sprintf("SetIntOption %s=%d", name, value))
}

func (inst *fakeInstance) SetBoolOption(name string, value bool) ReturnCode {
	return inst.code(fmt.Sprintf("SetBoolOption %s=%t", name, value))
}

func (inst *fakeInstance) SetFloatOption(name string, value float64) ReturnCode {
	return inst.code(fmt.Sprintf("SetFloatOption %s=%g", name, value))
}

func (inst *fakeInstance) SetStringOption(name, value string) ReturnCode {
	return inst.code(fmt.Sprintf("SetStringOption %s=%s", name, value))
}

func (inst *fakeInstance) SetOption(name, value string) ReturnCode {
	return inst.code(fmt.Sprintf("SetOption %s=%s", name, value))
}

func (inst *fakeInstance) Run() ReturnCode {
	if inst.engine.onRun != nil {
		inst.engine.onRun()
	}
	return inst.code("Run")
}

func (inst *fakeInstance) ModelStatus() int {
	inst.calls = append(inst.calls, "ModelStatus")
	if inst.engine.onStatus != nil {
		inst.engine.onStatus()
	}
	return inst.engine.status
}

func (inst *fakeInstance) ModelStatusText(status int) string {
	inst.calls = append(inst.calls, "ModelStatusText")
	return StatusText(status)
}

func (inst *fakeInstance) WriteSolutionPretty(path string) ReturnCode {
	inst.written = path
	if err := os.WriteFile(path, []byte(inst.engine.report), 0o600); err != nil {
		return CodeError
	}
	return inst.code("WriteSolutionPretty")
}

func (inst *fakeInstance) Close() {
	inst.calls = append(inst.calls, "Close")
	inst.closed = true
}

func (inst loggingFakeInstance) SetLogger(logger Logger) ReturnCode {
	inst.logger = logger
	return inst.code("SetLogger")
}

func newTestSolver(t *testing.T, engine Engine, opts ...Option) *Solver {
	t.Helper()

	opts = append([]Option{WithWorkDir(t.TempDir())}, opts...)
	solver, err := NewSolver(engine, opts...)
	require.NoError(t, err)

	return solver
}

/* Tests */

func TestSolve(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine)

	res, err := solver.Solve(testModel)
	require.NoError(t, err)

	assert.Equal(t, "Optimal", res.Status)
	assert.Equal(t, 2.0, res.Columns["x1"].Primal())
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1.5, res.Rows[0].Dual())

	inst := engine.last()
	assert.Equal(t, testModel, inst.model)
	want := []string{
		"ReadModel",
		"SetBoolOption output_flag=false",
		"SetIntOption log_dev_level=0",
		"Run",
		"ModelStatus",
		"ModelStatusText",
		"WriteSolutionPretty",
		"Close",
	}
	if diff := cmp.Diff(want, inst.calls); diff != "" {
		t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveStepFailures(t *testing.T) {
	tests := []struct {
		step   string
		action string
		code   ReturnCode
	}{
		{"ReadModel", "read LP model", CodeError},
		{"SetBoolOption output_flag=false", "set option", CodeError},
		{"SetIntOption log_dev_level=0", "set option", CodeError},
		{"Run", "solve the problem", CodeWarning},
		{"WriteSolutionPretty", "write and extract solution", CodeError},
	}

	for _, test := range tests {
		t.Run(test.step, func(t *testing.T) {
			engine := newFakeEngine()
			engine.failStep = test.step
			engine.failCode = test.code
			solver := newTestSolver(t, engine)

			res, err := solver.Solve(testModel)
			assert.Nil(t, res)

			var engineErr *EngineError
			require.ErrorAs(t, err, &engineErr)
			assert.Contains(t, engineErr.Action, test.action)
			assert.Equal(t, test.code, engineErr.Code)
			assert.Contains(t, err.Error(), fmt.Sprintf("HiGHS error %d", test.code))

			inst := engine.last()
			assert.True(t, inst.closed, "instance must be closed on failure")
			assert.Equal(t, test.step, inst.calls[len(inst.calls)-2], "no call after the failing step")
		})
	}
}

func TestSolveNewInstanceFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.newErr = errors.New("boom")
	solver := newTestSolver(t, engine)

	_, err := solver.Solve(testModel)
	assert.ErrorIs(t, err, engine.newErr)
	assert.Contains(t, err.Error(), "create solver instance")
}

func TestSolveMalformedReport(t *testing.T) {
	engine := newFakeEngine()
	engine.report = "Columns\n"
	solver := newTestSolver(t, engine)

	res, err := solver.Solve(testModel)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTooFewLines)
	assert.True(t, engine.last().closed)
}

func TestSolveRemovesFiles(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine)

	_, err := solver.Solve(testModel)
	require.NoError(t, err)

	inst := engine.last()
	assert.NoFileExists(t, engine.modelSeen[0])
	assert.NoFileExists(t, inst.written)
}

func TestSolveKeepFiles(t *testing.T) {
	dir := t.TempDir()
	engine := newFakeEngine()
	solver := newTestSolver(t, engine, WithWorkDir(dir), WithKeepFiles(true))

	_, err := solver.Solve(testModel)
	require.NoError(t, err)

	model := engine.modelSeen[0]
	assert.Equal(t, dir, filepath.Dir(model))
	assert.Equal(t, ".lp", filepath.Ext(model))
	assert.FileExists(t, model)
	assert.FileExists(t, engine.last().written)
}

func TestSolveUniqueFiles(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine)

	const n = 8
	wg := sync.WaitGroup{}
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = solver.Solve(fmt.Sprintf("%s\\ %d\n", testModel, i))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	seen := make(map[string]bool)
	for _, path := range engine.modelSeen {
		assert.False(t, seen[path], "model path %s reused", path)
		seen[path] = true
	}
	assert.Len(t, seen, n)
}

func TestSolveContextCanceledBefore(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.SolveWithContext(ctx, testModel)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, engine.instances)
}

func TestSolveContextCanceledDuringRun(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.onRun = cancel

	_, err := solver.SolveWithContext(ctx, testModel)
	assert.ErrorIs(t, err, context.Canceled)

	inst := engine.last()
	assert.True(t, inst.closed)
	assert.NotContains(t, inst.calls, "WriteSolutionPretty")
}

func TestSolveContextCanceledAfterStatus(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.onStatus = cancel

	res, err := solver.SolveWithContext(ctx, testModel)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)

	inst := engine.last()
	assert.True(t, inst.closed)
	assert.Contains(t, inst.calls, "ModelStatusText")
	assert.NotContains(t, inst.calls, "WriteSolutionPretty")
}

func TestSolveOptions(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine,
		WithIntOption("threads", 2),
		WithIntOption("log_dev_level", 1),
		WithBoolOption("presolve_off", true),
		WithFloatOption("mip_rel_gap", 0.01),
		WithTimeLimit(30),
		WithStringOption("solver", "ipm"),
		WithOption("mip_rel_gap", "0"),
		WithOption("mip_detect_symmetry", "1"),
	)

	_, err := solver.Solve(testModel)
	require.NoError(t, err)

	want := []string{
		"ReadModel",
		"SetBoolOption output_flag=false",
		"SetBoolOption presolve_off=true",
		"SetIntOption log_dev_level=1",
		"SetIntOption threads=2",
		"SetFloatOption mip_rel_gap=0.01",
		"SetFloatOption time_limit=30",
		"SetStringOption solver=ipm",
		"SetOption mip_detect_symmetry=1",
		"SetOption mip_rel_gap=0",
		"Run",
	}
	if diff := cmp.Diff(want, engine.last().calls[:len(want)]); diff != "" {
		t.Errorf("option order mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveOptionsGivenAsText(t *testing.T) {
	engine := newFakeEngine()
	solver := newTestSolver(t, engine,
		WithOption("mip_rel_gap", "0"),
		WithOption("time_limit", "30"),
		WithOption("mip_detect_symmetry", "1"),
	)

	_, err := solver.Solve(testModel)
	require.NoError(t, err)

	want := []string{
		"ReadModel",
		"SetBoolOption output_flag=false",
		"SetIntOption log_dev_level=0",
		"SetOption mip_detect_symmetry=1",
		"SetOption mip_rel_gap=0",
		"SetOption time_limit=30",
		"Run",
	}
	if diff := cmp.Diff(want, engine.last().calls[:len(want)]); diff != "" {
		t.Errorf("option calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveOptionFailureNamesOption(t *testing.T) {
	engine := newFakeEngine()
	engine.failStep = "SetStringOption solver=bogus"
	engine.failCode = CodeError
	solver := newTestSolver(t, engine, WithStringOption("solver", "bogus"))

	_, err := solver.Solve(testModel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to set option solver")
}

func TestSolveWithLogger(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)
	logger := LoggerFunc(func(v ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, fmt.Sprint(v...))
	})

	engine := newFakeEngine()
	engine.logging = true
	solver := newTestSolver(t, engine, WithLogger(logger))

	_, err := solver.Solve(testModel)
	require.NoError(t, err)

	inst := engine.last()
	require.NotNil(t, inst.logger)
	inst.logger.Print("forwarded")
	assert.Equal(t, []string{"ReadModel", "SetLogger", "Run"}, inst.calls[:3])
	assert.Contains(t, lines, "highslp: model status Optimal")
	assert.Contains(t, lines, "forwarded")
}

func TestNewSolverErrors(t *testing.T) {
	_, err := NewSolver(nil)
	assert.Error(t, err)

	_, err = NewSolver(newFakeEngine(), WithWorkDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)

	_, err = NewSolver(newFakeEngine(), WithTimeLimit(0))
	assert.Error(t, err)

	_, err = NewSolver(newFakeEngine(), WithLogger(nil))
	assert.Error(t, err)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Optimal", StatusText(7))
	assert.Equal(t, "Infeasible", StatusText(8))
	assert.Equal(t, "Unknown", StatusText(-3))
	assert.Equal(t, "Unknown", StatusText(99))
	assert.Equal(t, 7, StatusCode("optimal"))
	assert.Equal(t, 13, StatusCode("Time limit reached"))
	assert.Equal(t, statusUnknown, StatusCode("what"))
}

func TestCheckCode(t *testing.T) {
	assert.NoError(t, checkCode(CodeOK, "x"))

	err := checkCode(ReturnCode(-1), "read LP model")
	assert.EqualError(t, err, "unable to read LP model: HiGHS error -1")
}
