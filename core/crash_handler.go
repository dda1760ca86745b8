package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.Mutex
	crashCleanup func()
	crashOut     io.Writer = os.Stderr
	crashExit              = os.Exit
)

// SetCrashCleanup registers a hook run before the crash report is printed
// The terminal frontend uses it to restore the screen
func SetCrashCleanup(fn func()) {
	crashMu.Lock()
	crashCleanup = fn
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler: cleanup, report stack, exit
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	cleanup, out, exit := crashCleanup, crashOut, crashExit
	crashMu.Unlock()

	if cleanup != nil {
		// A failing cleanup must not hide the original crash
		func() {
			defer func() { _ = recover() }()
			cleanup()
		}()
	}

	fmt.Fprintf(out, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(out, "Stack Trace:\r\n%s\r\n", debug.Stack())

	exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so a crashing worker restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
