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

package highs

// #include <stdlib.h>
import "C"

import (
	"context"
	"sync"
	"unsafe"
)

/*
 Go values handed to HiGHS callbacks are looked up through a C-allocated
 handle, so no Go pointer is ever stored on the C side.
*/

var (
	refsMu sync.Mutex
	refs   = make(map[unsafe.Pointer]interface{})
)

func saveRef(ref interface{}) unsafe.Pointer {
	refsMu.Lock()
	defer refsMu.Unlock()

	var p unsafe.Pointer = C.malloc(C.size_t(1))
	if p == nil {
		panic("could not allocate memory for CGO pointer tracking")
	}

	refs[p] = ref

	return p
}

func loadRef(ptr unsafe.Pointer) interface{} {
	refsMu.Lock()
	defer refsMu.Unlock()

	return refs[ptr]
}

func deleteRef(ptr unsafe.Pointer) {
	refsMu.Lock()
	defer refsMu.Unlock()

	delete(refs, ptr)
	C.free(ptr)
}

// highslpInterrupt is polled by the HiGHS interrupt callbacks; a non-zero
// result stops the running solve. HiGHS may call it from its own worker
// threads.
//
//export highslpInterrupt
func highslpInterrupt(ref unsafe.Pointer) C.int {
	ctx, ok := loadRef(ref).(context.Context)
	if !ok {
		return 0
	}
	if ctx.Err() != nil {
		return 1
	}
	return 0
}
