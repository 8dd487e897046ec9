package goroutine

import (
	"runtime/debug"

	"github.com/ignatzorin/escrow-backend/internal/logger"
)

// SafeGo запускает функцию в горутине с перехватом паники:
// сбой фоновой задачи логируется и не роняет процесс.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil && logger.Log != nil {
				logger.Log.Errorf("паника в горутине восстановлена: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
