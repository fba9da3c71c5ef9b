//go:build !wasm

package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the runtime bound to the calling goroutine,
// creating one on first use.
func GetRuntime() *Runtime {
	if r, ok := runtimes.Load(currentGoroutine()); ok {
		return r.(*Runtime)
	}

	return NewRuntime(nil)
}

func register(r *Runtime) {
	runtimes.Store(r.gid, r)
}

func unregister(r *Runtime) {
	runtimes.CompareAndDelete(r.gid, r)
}

func currentGoroutine() int64 {
	return goid.Get()
}
