// Package goroutine launches background work that must not crash the process.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// SafeGo runs fn in a goroutine and logs a panic with its stack instead of
// letting it take the process down.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer recoverPanic(log, name)
		fn()
	}()
}

// SafeGoCtx is SafeGo for functions that observe cancellation.
func SafeGoCtx(ctx context.Context, log logger.Interface, name string, fn func(context.Context)) {
	go func() {
		defer recoverPanic(log, name)
		fn(ctx)
	}()
}

func recoverPanic(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
	}
}
