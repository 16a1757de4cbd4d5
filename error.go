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
	"errors"
	"fmt"
)

// ErrTooFewLines is returned when a solution report does not even hold a
// banner, a header and one more line.
var ErrTooFewLines = errors.New("unable to parse solution: too few lines")

// ErrMissingRows is returned when a report ends before the "Rows" sentinel
// or the header line following it.
var ErrMissingRows = errors.New("unable to parse solution: missing Rows section")

// EngineError reports a solver call that returned a non-zero code.
type EngineError struct {
	Action string
	Code   ReturnCode
}

// Error returns a string representation of the given error value.
func (e *EngineError) Error() string {
	return fmt.Sprintf("unable to %s: HiGHS error %d", e.Action, e.Code)
}

// checkCode turns a non-zero engine return code into an *EngineError
// labelled with the action that produced it.
func checkCode(code ReturnCode, action string) error {
	if code != CodeOK {
		return &EngineError{Action: action, Code: code}
	}
	return nil
}

// ReportError reports a solution report line that could not be parsed.
type ReportError struct {
	Line string
	Msg  string
}

func (e *ReportError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("unable to parse solution line: %s (%s)", e.Line, e.Msg)
	}
	return fmt.Sprintf("unable to parse solution line: %s", e.Line)
}
