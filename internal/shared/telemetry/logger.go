package telemetry

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

// Init configures the process logger. Production gets JSON output,
// everything else the zap development encoder.
func Init(env string) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}

	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
}

// Sync flushes buffered log entries.
func Sync() {
	if l := base(); l != nil {
		_ = l.Sync()
	}
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	base().Infow(msg, flatten(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	base().Warnw(msg, flatten(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	base().Errorw(msg, flatten(fields)...)
}

func base() *zap.SugaredLogger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		mu.Lock()
		if logger == nil {
			logger = zap.NewNop().Sugar()
		}
		l = logger
		mu.Unlock()
	}
	return l
}

func flatten(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}
