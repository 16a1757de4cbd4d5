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

Package highsexec is a highslp engine that runs the highs command-line
binary instead of linking the library. Options are passed through an
options file and the pretty solution is requested with
write_solution_style = 1.

	solver, err := highslp.NewSolver(highsexec.New(highsexec.WithBinary("/opt/highs/bin/highs")))

*/
package highsexec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/costela/highslp"
)

/* Types */

// DefaultBinary is looked up in PATH when no binary is configured.
const DefaultBinary = "highs"

// solutionStylePretty is HiGHS' kSolutionStylePretty.
const solutionStylePretty = 1

// Engine starts one highs process per solve.
type Engine struct {
	binary string
	args   []string
}

type EngineOption func(*Engine)

type instance struct {
	binary  string
	args    []string
	dir     string
	model   string
	options map[string]string
	logger  highslp.Logger
	forward bool

	ran        bool
	loadFailed bool
	statusText string
}

var (
	_ highslp.Engine          = (*Engine)(nil)
	_ highslp.LoggingInstance = (*instance)(nil)
	_ highslp.ContextRunner   = (*instance)(nil)
)

var statusLine = regexp.MustCompile(`(?m)^\s*Model\s+status\s*:\s*(.+?)\s*$`)

// printed by highs when the model file cannot be read
var loadError = regexp.MustCompile(`(?m)^\s*Error loading file`)

// errors surfaced by the highs binary exit as 255 (HighsStatus -1)
const exitCodeError = 255

/* Engine related functions */

// WithBinary sets the path or name of the highs executable.
func WithBinary(binary string) EngineOption {
	return func(e *Engine) {
		e.binary = binary
	}
}

// WithArgs appends extra command-line arguments to every invocation.
func WithArgs(args ...string) EngineOption {
	return func(e *Engine) {
		e.args = append(e.args, args...)
	}
}

func New(opts ...EngineOption) *Engine {
	e := &Engine{binary: DefaultBinary}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Binary returns the resolved path of the configured executable.
func (e *Engine) Binary() (string, error) {
	return exec.LookPath(e.binary)
}

// Version returns the first line printed by "highs --version".
func (e *Engine) Version() (string, error) {
	binary, err := e.Binary()
	if err != nil {
		return "", fmt.Errorf("locating highs binary: %w", err)
	}

	out, err := exec.Command(binary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("running %s --version: %w", binary, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}

	return "", fmt.Errorf("%s --version printed nothing", binary)
}

func (e *Engine) NewInstance() (highslp.Instance, error) {
	binary, err := e.Binary()
	if err != nil {
		return nil, fmt.Errorf("locating highs binary: %w", err)
	}

	dir, err := os.MkdirTemp("", "highslp-exec-")
	if err != nil {
		return nil, err
	}

	return &instance{
		binary:  binary,
		args:    e.args,
		dir:     dir,
		options: make(map[string]string),
	}, nil
}

/* Instance related functions */

// ReadModel only checks that the model file exists. The binary reads the
// model when it runs, so an unreadable model fails the run step; the
// model status is then "Load error" and the logger is told why.
func (inst *instance) ReadModel(path string) highslp.ReturnCode {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return highslp.CodeError
	}
	inst.model = path

	return highslp.CodeOK
}

func (inst *instance) setOption(name, value string) highslp.ReturnCode {
	if name == "" || strings.ContainsAny(name, " \t\r\n=") || strings.ContainsAny(value, "\r\n") {
		return highslp.CodeError
	}
	inst.options[name] = value

	return highslp.CodeOK
}

func (inst *instance) SetIntOption(name string, value int) highslp.ReturnCode {
	return inst.setOption(name, strconv.Itoa(value))
}

// SetBoolOption stores a boolean option. output_flag is not handed to
// the binary: the status line is always needed, so the flag only decides
// whether the output reaches the logger.
func (inst *instance) SetBoolOption(name string, value bool) highslp.ReturnCode {
	if name == "output_flag" {
		inst.forward = value
		return highslp.CodeOK
	}

	return inst.setOption(name, strconv.FormatBool(value))
}

func (inst *instance) SetFloatOption(name string, value float64) highslp.ReturnCode {
	return inst.setOption(name, strconv.FormatFloat(value, 'g', -1, 64))
}

func (inst *instance) SetStringOption(name, value string) highslp.ReturnCode {
	return inst.setOption(name, value)
}

// SetOption stores the text as given; highs parses the options file by
// each option's type.
func (inst *instance) SetOption(name, value string) highslp.ReturnCode {
	if name == "output_flag" {
		on, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return highslp.CodeError
		}
		return inst.SetBoolOption(name, on)
	}

	return inst.setOption(name, value)
}

func (inst *instance) SetLogger(logger highslp.Logger) highslp.ReturnCode {
	inst.logger = logger
	inst.forward = true

	return highslp.CodeOK
}

func (inst *instance) solutionPath() string {
	return filepath.Join(inst.dir, "solution.sol")
}

func (inst *instance) optionsPath() string {
	return filepath.Join(inst.dir, "options.txt")
}

// writeOptions renders the options file, one "name = value" per line in
// name order, followed by the settings needed for a pretty solution file.
func (inst *instance) writeOptions() error {
	var buf bytes.Buffer

	names := make([]string, 0, len(inst.options))
	for name := range inst.options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&buf, "%s = %s\n", name, inst.options[name])
	}
	fmt.Fprintf(&buf, "write_solution_to_file = true\n")
	fmt.Fprintf(&buf, "write_solution_style = %d\n", solutionStylePretty)

	return os.WriteFile(inst.optionsPath(), buf.Bytes(), 0o600)
}

func (inst *instance) commandArgs() []string {
	args := []string{
		"--model_file", inst.model,
		"--options_file", inst.optionsPath(),
		"--solution_file", inst.solutionPath(),
	}

	return append(args, inst.args...)
}

func (inst *instance) Run() highslp.ReturnCode {
	return inst.RunContext(context.Background())
}

func (inst *instance) RunContext(ctx context.Context) highslp.ReturnCode {
	if inst.model == "" {
		return highslp.CodeError
	}
	if err := inst.writeOptions(); err != nil {
		inst.log("highsexec: writing options file: ", err)
		return highslp.CodeError
	}

	cmd := exec.CommandContext(ctx, inst.binary, inst.commandArgs()...)
	output, err := cmd.CombinedOutput()

	if inst.forward {
		inst.forwardOutput(output)
	}
	if m := statusLine.FindSubmatch(output); m != nil {
		inst.statusText = string(m[1])
	}
	if err != nil && loadError.Match(output) {
		inst.loadFailed = true
		inst.statusText = highslp.StatusText(highslp.StatusCode("Load error"))
		inst.log("highsexec: highs could not read model ", inst.model)
	}
	inst.ran = true

	return exitCode(err)
}

func exitCode(err error) highslp.ReturnCode {
	if err == nil {
		return highslp.CodeOK
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return highslp.CodeError
	}

	code := exitErr.ExitCode()
	if code == exitCodeError || code < 0 {
		return highslp.CodeError
	}

	return highslp.ReturnCode(code)
}

func (inst *instance) forwardOutput(output []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), " "); line != "" {
			inst.log(line)
		}
	}
}

func (inst *instance) log(v ...interface{}) {
	if inst.logger != nil {
		inst.logger.Print(v...)
	}
}

// ModelStatus reports the status printed by the binary, falling back to
// the summary of the solution file.
func (inst *instance) ModelStatus() int {
	if inst.statusText == "" {
		inst.statusText = inst.solutionFileStatus()
	}
	if inst.statusText == "" {
		return highslp.StatusCode("Not Set")
	}

	return highslp.StatusCode(inst.statusText)
}

func (inst *instance) solutionFileStatus() string {
	data, err := os.ReadFile(inst.solutionPath())
	if err != nil {
		return ""
	}
	if m := statusLine.FindSubmatch(data); m != nil {
		return string(m[1])
	}

	return ""
}

func (inst *instance) ModelStatusText(status int) string {
	return highslp.StatusText(status)
}

func (inst *instance) WriteSolutionPretty(path string) highslp.ReturnCode {
	if !inst.ran {
		return highslp.CodeError
	}
	if err := copyFile(inst.solutionPath(), path); err != nil {
		inst.log("highsexec: copying solution: ", err)
		return highslp.CodeError
	}

	return highslp.CodeOK
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func (inst *instance) Close() {
	if inst.dir != "" {
		_ = os.RemoveAll(inst.dir)
		inst.dir = ""
	}
}
