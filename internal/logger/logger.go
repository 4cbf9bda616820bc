// Package logger provides the process-wide structured logger. Handlers and
// main log through it; the service and engine layers stay silent and return
// errors instead.
package logger

import (
	"sync"
)

// Log levels accepted by Get.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	instance *Logger
	initOnce sync.Once
)

// Get returns the singleton logger. The first caller fixes the level; later
// calls ignore their argument and receive the same instance.
func Get(level string) *Logger {
	initOnce.Do(func() {
		instance = newZapLogger(level)
	})
	return instance
}
