//go:build cgo

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
	"github.com/costela/highslp"
	"github.com/costela/highslp/highs"
)

func init() {
	engines[engineCgo] = engineSpec{
		new: func(*Config) (highslp.Engine, error) {
			return highs.New(), nil
		},
		version: func(*Config) (string, error) {
			return highs.Version(), nil
		},
	}
}
