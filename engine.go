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

import "strings"

// ReturnCode is the plain integer every engine call reports. Zero means
// success; HiGHS uses -1 for errors and 1 for warnings.
type ReturnCode int

const (
	CodeError   = ReturnCode(-1)
	CodeOK      = ReturnCode(0)
	CodeWarning = ReturnCode(1)
)

// Engine creates solver instances. Implementations live in the highs
// (cgo) and highsexec (command-line binary) subpackages.
type Engine interface {
	NewInstance() (Instance, error)
}

// Instance is a single solver handle. It is driven through one solve
// call and closed afterwards; it is never shared between calls.
type Instance interface {
	ReadModel(path string) ReturnCode
	SetIntOption(name string, value int) ReturnCode
	SetBoolOption(name string, value bool) ReturnCode
	SetFloatOption(name string, value float64) ReturnCode
	SetStringOption(name, value string) ReturnCode
	// SetOption sets an option from its text form, converted to whatever
	// type the option has.
	SetOption(name, value string) ReturnCode
	Run() ReturnCode
	ModelStatus() int
	ModelStatusText(status int) string
	WriteSolutionPretty(path string) ReturnCode
	Close()
}

// LoggingInstance is implemented by instances able to forward solver
// log messages to a Logger instead of the process' stdout.
type LoggingInstance interface {
	Instance
	SetLogger(logger Logger) ReturnCode
}

// ModelStatusNames holds the textual HiGHS model status values, indexed by
// their numeric code (kHighsModelStatus*). Engines without a native
// status-to-text call share this table.
var ModelStatusNames = []string{
	"Not Set",
	"Load error",
	"Model error",
	"Presolve error",
	"Solve error",
	"Postsolve error",
	"Empty",
	"Optimal",
	"Infeasible",
	"Primal infeasible or unbounded",
	"Unbounded",
	"Bound on objective reached",
	"Target for objective reached",
	"Time limit reached",
	"Iteration limit reached",
	"Unknown",
	"Solution limit reached",
	"Interrupted by user",
}

// StatusText maps a numeric HiGHS model status to its text.
func StatusText(status int) string {
	if status >= 0 && status < len(ModelStatusNames) {
		return ModelStatusNames[status]
	}
	return "Unknown"
}

// StatusCode is the inverse of StatusText. The lookup is case-insensitive;
// unrecognized texts map to the "Unknown" code.
func StatusCode(text string) int {
	for i, name := range ModelStatusNames {
		if strings.EqualFold(name, text) {
			return i
		}
	}
	return statusUnknown
}

const (
	statusOptimal = 7
	statusUnknown = 15
)
