package logging

import "sync"

// DefaultLoggerFactory implements LoggerFactory using zap loggers
type DefaultLoggerFactory struct {
	level   string
	loggers map[string]Logger
	mu      sync.RWMutex
}

// NewLoggerFactory creates a new logger factory emitting at the given level
func NewLoggerFactory(level string) LoggerFactory {
	return &DefaultLoggerFactory{
		level:   level,
		loggers: make(map[string]Logger),
	}
}

// CreateLogger creates (or reuses) a logger for the specified component
func (f *DefaultLoggerFactory) CreateLogger(component string) Logger {
	f.mu.Lock()
	defer f.mu.Unlock()

	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	logger := NewZapLogger(component, f.level)
	f.loggers[component] = logger
	return logger
}
