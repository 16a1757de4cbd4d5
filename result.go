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
	"math"
	"strconv"
)

/* Types */

// Result is the structured form of a solution report.
type Result struct {
	// Status is the model status reported by the engine, e.g. "Optimal".
	Status string
	// Columns maps each variable name to its attributes.
	Columns map[string]Record
	// Rows holds the constraint attributes in report order. Names are not
	// required to be unique.
	Rows []Record
	// Summary holds the trailing "Key: value" lines some HiGHS versions
	// append to the report, such as "Objective value".
	Summary map[string]string
}

// Record holds the attributes of a single report line, keyed by column
// header. Index is stored as int; Lower, Upper, Primal and Dual as
// float64, NaN when the token is not a number; everything else as the raw
// string token.
type Record map[string]any

const (
	KeyIndex  = "Index"
	KeyName   = "Name"
	KeyStatus = "Status"
	KeyLower  = "Lower"
	KeyUpper  = "Upper"
	KeyPrimal = "Primal"
	KeyDual   = "Dual"
)

// Name returns the Name attribute, or "" if the report had no names.
func (r Record) Name() string {
	s, _ := r.String(KeyName)
	return s
}

// Index returns the Index attribute.
func (r Record) Index() (int, bool) {
	v, ok := r[KeyIndex].(int)
	return v, ok
}

// Float returns a floating point attribute.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key].(float64)
	return v, ok
}

// String returns a raw text attribute.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

func (r Record) Lower() float64  { return r.floatOrNaN(KeyLower) }
func (r Record) Upper() float64  { return r.floatOrNaN(KeyUpper) }
func (r Record) Primal() float64 { return r.floatOrNaN(KeyPrimal) }
func (r Record) Dual() float64   { return r.floatOrNaN(KeyDual) }

func (r Record) floatOrNaN(key string) float64 {
	if v, ok := r.Float(key); ok {
		return v
	}
	return math.NaN()
}

/* Result-related functions */

// IsOptimal reports if the engine classified the model as solved to
// optimality.
func (res *Result) IsOptimal() bool {
	return res.Status == StatusText(statusOptimal)
}

// Value returns the primal value of the named variable.
func (res *Result) Value(name string) (float64, bool) {
	col, ok := res.Columns[name]
	if !ok {
		return 0, false
	}
	return col.Float(KeyPrimal)
}

// ObjectiveValue returns the objective value from the report summary, when
// the engine printed one.
func (res *Result) ObjectiveValue() (float64, bool) {
	s, ok := res.Summary["Objective value"]
	if !ok {
		return 0, false
	}
	v, err := parseNum(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Row returns the first constraint with the given name.
func (res *Result) Row(name string) (Record, bool) {
	for _, row := range res.Rows {
		if row.Name() == name {
			return row, true
		}
	}
	return nil, false
}

func columnKey(rec Record) (string, bool) {
	if name := rec.Name(); name != "" {
		return name, true
	}
	if idx, ok := rec.Index(); ok {
		return strconv.Itoa(idx), true
	}
	return "", false
}
