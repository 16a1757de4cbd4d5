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
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/costela/highslp"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// report is the printed form of a Result.
type report struct {
	File    string            `json:"file,omitempty" yaml:"file,omitempty"`
	Status  string            `json:"status" yaml:"status"`
	Columns map[string]record `json:"columns" yaml:"columns"`
	Rows    []record          `json:"rows" yaml:"rows"`
	Summary map[string]string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// record prints infinite bounds as "inf" and "-inf" in JSON, which has no
// literal for them. YAML has .inf and needs no help.
type record highslp.Record

func (r record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if f, ok := v.(float64); ok {
			switch {
			case math.IsInf(f, 1):
				v = "inf"
			case math.IsInf(f, -1):
				v = "-inf"
			case math.IsNaN(f):
				v = "nan"
			}
		}
		out[k] = v
	}

	return json.Marshal(out)
}

func newReport(file string, res *highslp.Result) report {
	rep := report{
		File:    file,
		Status:  res.Status,
		Columns: make(map[string]record, len(res.Columns)),
		Rows:    make([]record, 0, len(res.Rows)),
		Summary: res.Summary,
	}
	for name, col := range res.Columns {
		rep.Columns[name] = record(col)
	}
	for _, row := range res.Rows {
		rep.Rows = append(rep.Rows, record(row))
	}

	return rep
}

// writeReports prints a single report as a document and several as a list.
func writeReports(w io.Writer, format string, reports []report) error {
	var doc any = reports
	if len(reports) == 1 {
		doc = reports[0]
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
