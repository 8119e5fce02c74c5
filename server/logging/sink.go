package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// swapped out in tests
var exit = os.Exit

// GuardedSink is the last-resort sink for the logging path. Entries that
// cannot be written to the primary stream are retried against the fallback
// stream. If the fallback write fails too, the process can no longer report
// its own state and terminates with a nonzero status. Every other failure in
// the system is logged and swallowed; this is the single fatal condition.
type GuardedSink struct {
	primary  zapcore.WriteSyncer
	fallback zapcore.WriteSyncer
}

func NewGuardedSink(primary, fallback zapcore.WriteSyncer) *GuardedSink {
	return &GuardedSink{
		primary:  primary,
		fallback: fallback,
	}
}

func (s *GuardedSink) Write(p []byte) (int, error) {
	n, err := s.primary.Write(p)
	if err == nil {
		return n, nil
	}
	if _, ferr := s.fallback.Write(p); ferr != nil {
		exit(1)
	}
	return len(p), nil
}

// Sync flushes both streams. Flush failures are not faults worth acting on:
// stdout regularly refuses Sync when redirected.
func (s *GuardedSink) Sync() error {
	s.primary.Sync()  // nolint: errcheck
	s.fallback.Sync() // nolint: errcheck
	return nil
}
