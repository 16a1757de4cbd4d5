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

Package highs is the cgo engine for highslp. It links the HiGHS shared
library, which must be installed together with its pkg-config file.

	solver, err := highslp.NewSolver(highs.New(), highslp.WithTimeLimit(60))
	if err != nil {
		log.Fatal(err)
	}
	result, err := solver.Solve(model)

*/
package highs

/*
#cgo pkg-config: highs
#include <stdlib.h>
#include "interfaces/highs_c_api.h"

extern int highslpInterrupt(void* ref);

static void highslpCallback(int type, const char* message,
                            const HighsCallbackDataOut* out, HighsCallbackDataIn* in,
                            void* ref) {
	if (in != NULL && highslpInterrupt(ref)) {
		in->user_interrupt = 1;
	}
}

static HighsInt highslpWatch(void* highs, void* ref) {
	HighsInt status = Highs_setCallback(highs, highslpCallback, ref);
	if (status != kHighsStatusOk) {
		return status;
	}
	Highs_startCallback(highs, kHighsCallbackSimplexInterrupt);
	Highs_startCallback(highs, kHighsCallbackIpmInterrupt);
	Highs_startCallback(highs, kHighsCallbackMipInterrupt);
	return kHighsStatusOk;
}

static void highslpUnwatch(void* highs) {
	Highs_stopCallback(highs, kHighsCallbackSimplexInterrupt);
	Highs_stopCallback(highs, kHighsCallbackIpmInterrupt);
	Highs_stopCallback(highs, kHighsCallbackMipInterrupt);
	Highs_setCallback(highs, NULL, NULL);
}
*/
import "C"

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unsafe"

	"github.com/costela/highslp"
)

/* Types */

// Engine creates HiGHS instances through the C API.
type Engine struct{}

type instance struct {
	ptr       unsafe.Pointer
	logger    highslp.Logger
	modelPath string
	logPath   string
}

var (
	_ highslp.Engine          = (*Engine)(nil)
	_ highslp.LoggingInstance = (*instance)(nil)
	_ highslp.ContextRunner   = (*instance)(nil)
)

/* Engine related functions */

// New returns the cgo engine.
func New() *Engine {
	return &Engine{}
}

// Solve is a shorthand for solving a single model with this engine.
func Solve(model string, opts ...highslp.Option) (*highslp.Result, error) {
	solver, err := highslp.NewSolver(New(), opts...)
	if err != nil {
		return nil, err
	}

	return solver.Solve(model)
}

// Version returns the version string of the linked HiGHS library.
func Version() string {
	return C.GoString(C.Highs_version())
}

// NewInstance creates a fresh HiGHS object.
func (*Engine) NewInstance() (highslp.Instance, error) {
	ptr := C.Highs_create()
	if ptr == nil {
		return nil, errors.New("Highs_create returned NULL")
	}

	inst := &instance{ptr: ptr}

	// make sure the C object is released even if Close is never called
	runtime.SetFinalizer(inst, (*instance).Close)

	return inst, nil
}

/* Instance related functions */

func (inst *instance) ReadModel(path string) highslp.ReturnCode {
	c_path := C.CString(path)
	defer C.free(unsafe.Pointer(c_path))

	inst.modelPath = path

	return highslp.ReturnCode(C.Highs_readModel(inst.ptr, c_path))
}

func (inst *instance) SetIntOption(name string, value int) highslp.ReturnCode {
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))

	return highslp.ReturnCode(C.Highs_setIntOptionValue(inst.ptr, c_name, C.HighsInt(value)))
}

func (inst *instance) SetBoolOption(name string, value bool) highslp.ReturnCode {
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))

	var c_value C.HighsInt
	if value {
		c_value = 1
	}

	return highslp.ReturnCode(C.Highs_setBoolOptionValue(inst.ptr, c_name, c_value))
}

func (inst *instance) SetFloatOption(name string, value float64) highslp.ReturnCode {
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))

	return highslp.ReturnCode(C.Highs_setDoubleOptionValue(inst.ptr, c_name, C.double(value)))
}

func (inst *instance) SetStringOption(name, value string) highslp.ReturnCode {
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))
	c_value := C.CString(value)
	defer C.free(unsafe.Pointer(c_value))

	return highslp.ReturnCode(C.Highs_setStringOptionValue(inst.ptr, c_name, c_value))
}

func (inst *instance) SetOption(name, value string) highslp.ReturnCode {
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))
	c_value := C.CString(value)
	defer C.free(unsafe.Pointer(c_value))

	return highslp.ReturnCode(C.Highs_setOptionValue(inst.ptr, c_name, c_value))
}

// SetLogger routes HiGHS log messages to logger instead of stdout. HiGHS
// writes them to a private log file next to the model, which is forwarded
// once the HiGHS object has been destroyed and the file is complete.
func (inst *instance) SetLogger(logger highslp.Logger) highslp.ReturnCode {
	if inst.logPath == "" {
		path, err := inst.newLogPath()
		if err != nil {
			return highslp.CodeError
		}
		inst.logPath = path
	}

	if code := inst.SetBoolOption("output_flag", true); code != highslp.CodeOK {
		return code
	}
	if code := inst.SetBoolOption("log_to_console", false); code != highslp.CodeOK {
		return code
	}
	if code := inst.SetStringOption("log_file", inst.logPath); code != highslp.CodeOK {
		return code
	}

	inst.logger = logger

	return highslp.CodeOK
}

func (inst *instance) Run() highslp.ReturnCode {
	return highslp.ReturnCode(C.Highs_run(inst.ptr))
}

// RunContext runs the solver with the simplex, IPM and MIP interrupt
// callbacks watching ctx, so a cancellation stops the solve in progress.
func (inst *instance) RunContext(ctx context.Context) highslp.ReturnCode {
	if ctx.Done() == nil {
		return inst.Run()
	}

	ref := saveRef(ctx)
	defer deleteRef(ref)

	if code := highslp.ReturnCode(C.highslpWatch(inst.ptr, ref)); code != highslp.CodeOK {
		return code
	}
	defer C.highslpUnwatch(inst.ptr)

	return inst.Run()
}

// newLogPath names the log after the model file, which already lives in
// the solver's work directory under a unique name.
func (inst *instance) newLogPath() (string, error) {
	if inst.modelPath != "" {
		return strings.TrimSuffix(inst.modelPath, filepath.Ext(inst.modelPath)) + ".log", nil
	}

	f, err := os.CreateTemp("", "highslp-*.log")
	if err != nil {
		return "", err
	}
	f.Close()

	return f.Name(), nil
}

// forwardLog passes the lines HiGHS wrote to its log file on to the logger.
func (inst *instance) forwardLog() {
	if inst.logger == nil || inst.logPath == "" {
		return
	}

	f, err := os.Open(inst.logPath)
	if err != nil {
		inst.logger.Print("highs: reading solver log: ", err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), " "); line != "" {
			inst.logger.Print(line)
		}
	}
}

func (inst *instance) ModelStatus() int {
	return int(C.Highs_getModelStatus(inst.ptr))
}

func (inst *instance) ModelStatusText(status int) string {
	return highslp.StatusText(status)
}

func (inst *instance) WriteSolutionPretty(path string) highslp.ReturnCode {
	c_path := C.CString(path)
	defer C.free(unsafe.Pointer(c_path))

	return highslp.ReturnCode(C.Highs_writeSolutionPretty(inst.ptr, c_path))
}

// Close destroys the HiGHS object. Calling it more than once is a no-op.
func (inst *instance) Close() {
	if inst.ptr != nil {
		C.Highs_destroy(inst.ptr)
		inst.ptr = nil
	}
	if inst.logPath != "" {
		inst.forwardLog()
		_ = os.Remove(inst.logPath)
		inst.logPath = ""
	}
}
