// Package logger provides the small leveled logging capability injected
// into every component. The standard implementation writes through the
// stdlib log package; tests use the no-op implementation.
package logger

import "log"

// Logger is the logging capability consumed by the scanner components.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type std struct {
	debug bool
}

// New returns a Logger backed by the stdlib log package. Debug messages
// are dropped unless debug is true.
func New(debug bool) Logger {
	return &std{debug: debug}
}

func (s *std) Debugf(format string, args ...any) {
	if s.debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func (s *std) Infof(format string, args ...any)  { log.Printf("[INFO] "+format, args...) }
func (s *std) Warnf(format string, args ...any)  { log.Printf("[WARN] "+format, args...) }
func (s *std) Errorf(format string, args ...any) { log.Printf("[ERROR] "+format, args...) }

type nop struct{}

// NewNop returns a Logger that discards everything.
func NewNop() Logger { return nop{} }

func (nop) Debugf(string, ...any) {}
func (nop) Infof(string, ...any)  {}
func (nop) Warnf(string, ...any)  {}
func (nop) Errorf(string, ...any) {}
