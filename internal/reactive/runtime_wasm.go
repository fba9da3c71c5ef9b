//go:build wasm

package reactive

import "sync"

// wasm runs a single thread, every runtime shares goroutine id 0.
var (
	mu            sync.Mutex
	globalRuntime *Runtime
)

func GetRuntime() *Runtime {
	mu.Lock()
	r := globalRuntime
	mu.Unlock()

	if r != nil {
		return r
	}

	return NewRuntime(nil)
}

func register(r *Runtime) {
	mu.Lock()
	globalRuntime = r
	mu.Unlock()
}

func unregister(r *Runtime) {
	mu.Lock()
	if globalRuntime == r {
		globalRuntime = nil
	}
	mu.Unlock()
}

func currentGoroutine() int64 {
	return 0
}
