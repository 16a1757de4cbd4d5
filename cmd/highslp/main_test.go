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
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const exampleReport = `Model status: Optimal
Index Name Lower Upper Primal Dual
0 x1 0 inf 2 0
Rows
Index Name Lower Upper Primal Dual
0 c1 -inf 10 2 1.5
`

const exampleJSON = `{
	"status": "Optimal",
	"columns": {"x1": {"Index": 0, "Name": "x1", "Lower": 0, "Upper": "inf", "Primal": 2, "Dual": 0}},
	"rows": [{"Index": 0, "Name": "c1", "Lower": "-inf", "Upper": 10, "Primal": 2, "Dual": 1.5}]
}`

const fakeHighs = `#!/bin/sh
sol=""
opts=""
while [ $# -gt 0 ]; do
	case "$1" in
	--version) echo "HiGHS version 1.7.0"; exit 0 ;;
	--solution_file) sol="$2"; shift ;;
	--options_file) opts="$2"; shift ;;
	esac
	shift
done
if [ -n "$FAKE_HIGHS_DUMP" ]; then
	cp "$opts" "$FAKE_HIGHS_DUMP"
fi
echo "Model status        : Optimal"
printf 'Columns\n    Index Status Lower Upper Primal Dual Name\n        0 BS 0 inf 2 0 x1\nRows\n    Index Status Lower Upper Primal Dual Name\n        0 UB -inf 10 2 1.5 c1\n' > "$sol"
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func fakeBinary(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake highs binary needs a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "highs")
	require.NoError(t, os.WriteFile(path, []byte(fakeHighs), 0o755))

	return path
}

func writeModels(t *testing.T, names ...string) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("Minimize\n obj: x1\nSubject To\n c1: x1 <= 10\nEnd\n"), 0o600))
		paths = append(paths, path)
	}

	return paths
}

func TestParseStdin(t *testing.T) {
	out, err := execute(t, exampleReport, "parse", "--status", "Optimal")
	require.NoError(t, err)

	assert.JSONEq(t, exampleJSON, out)
}

func TestParseFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.sol")
	require.NoError(t, os.WriteFile(path, []byte(exampleReport), 0o600))

	out, err := execute(t, "", "parse", "-f", "yaml", path)
	require.NoError(t, err)

	var doc struct {
		File    string
		Status  string
		Columns map[string]map[string]any
		Rows    []map[string]any
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))

	assert.Equal(t, path, doc.File)
	assert.Empty(t, doc.Status)
	assert.True(t, math.IsInf(doc.Columns["x1"]["Upper"].(float64), 1))
	require.Len(t, doc.Rows, 1)
	assert.True(t, math.IsInf(doc.Rows[0]["Lower"].(float64), -1))
	assert.Equal(t, "c1", doc.Rows[0]["Name"])
}

func TestParseMalformed(t *testing.T) {
	_, err := execute(t, "Columns\n", "parse")
	assert.Error(t, err)
}

func TestSolveExec(t *testing.T) {
	bin := fakeBinary(t)
	models := writeModels(t, "a.lp")

	out, err := execute(t, "", "solve", "--engine", "exec", "--highs", bin, "--workdir", t.TempDir(), models[0])
	require.NoError(t, err)

	assert.Contains(t, out, `"status": "Optimal"`)
	assert.Contains(t, out, `"file": "`+models[0]+`"`)
	assert.Contains(t, out, `"Upper": "inf"`)
}

func TestSolveExecSeveral(t *testing.T) {
	bin := fakeBinary(t)
	models := writeModels(t, "a.lp", "b.lp", "c.lp")

	args := append([]string{"solve", "--engine", "exec", "--highs", bin, "--jobs", "2", "-f", "yaml"}, models...)
	out, err := execute(t, "", args...)
	require.NoError(t, err)

	var docs []struct {
		File   string
		Status string
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, models[i], doc.File)
		assert.Equal(t, "Optimal", doc.Status)
	}
}

func TestSolveOptionsAsText(t *testing.T) {
	bin := fakeBinary(t)
	models := writeModels(t, "a.lp")
	dump := filepath.Join(t.TempDir(), "options.txt")
	t.Setenv("FAKE_HIGHS_DUMP", dump)

	_, err := execute(t, "", "solve", "--engine", "exec", "--highs", bin,
		"--time-limit", "30",
		"-o", "threads=4",
		"-o", "mip_rel_gap=0",
		"-o", "mip_detect_symmetry=1",
		"-o", "allow_unbounded_or_infeasible=TRUE",
		"-o", "presolve=off",
		models[0],
	)
	require.NoError(t, err)

	options, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"allow_unbounded_or_infeasible = TRUE",
		"log_dev_level = 0",
		"mip_detect_symmetry = 1",
		"mip_rel_gap = 0",
		"presolve = off",
		"threads = 4",
		"time_limit = 30",
		"write_solution_to_file = true",
		"write_solution_style = 1",
		"",
	}, "\n"), string(options))
}

func TestSolveMissingFile(t *testing.T) {
	bin := fakeBinary(t)

	_, err := execute(t, "", "solve", "--engine", "exec", "--highs", bin, filepath.Join(t.TempDir(), "missing.lp"))
	assert.Error(t, err)
}

func TestSolveNeedsFiles(t *testing.T) {
	_, err := execute(t, "", "solve")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	bin := fakeBinary(t)

	out, err := execute(t, "", "version", "--config", writeConfig(t, "highs: "+bin+"\n"))
	require.NoError(t, err)

	assert.Contains(t, out, "exec\tHiGHS version 1.7.0\n")
}
