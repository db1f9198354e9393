package utils

import (
	"context"
	"runtime/debug"

	"investing-backend/pkg/logger"
)

// GoSafe runs fn in a goroutine. A panic inside fn is recovered and logged
// with its stack against ctx.
func GoSafe(ctx context.Context, log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.ErrorContext(ctx, "Recovered from panic",
					logger.Field("panic", r),
					logger.StringField("stack", string(debug.Stack())),
				)
			}
		}()
		fn()
	}()
}

// ToPointer returns a pointer to v.
func ToPointer[T any](v T) *T {
	return &v
}
