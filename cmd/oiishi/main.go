// Command oiishi shows the OIISHI sauce bottle in an interactive 3D window and exposes
// the headless tools around it: GLB export, PNG snapshots, model inspection and the
// storefront data.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

func init() {
	// GLFW must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
