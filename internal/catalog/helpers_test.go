// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package catalog

import (
	"runtime"
	"time"
)

func runtimeYield() {
	runtime.Gosched()
	time.Sleep(time.Millisecond)
}
