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
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// invocationFiles are the two files a single solve call works with. Both
// share a random base name so concurrent calls never collide.
type invocationFiles struct {
	model    string
	solution string
}

func newInvocationFiles(dir string) invocationFiles {
	base := filepath.Join(dir, "highslp-"+uuid.NewString())

	// HiGHS chooses its model reader by file extension
	return invocationFiles{
		model:    base + ".lp",
		solution: base + ".sol",
	}
}

// writeModel persists the model text where the engine can read it.
func (f invocationFiles) writeModel(model string) error {
	if err := os.WriteFile(f.model, []byte(model), 0o600); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}

	return nil
}

// remove deletes whatever files the call managed to create.
func (f invocationFiles) remove() {
	for _, name := range []string{f.model, f.solution} {
		_ = os.Remove(name)
	}
}
