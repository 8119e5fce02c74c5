// Package sync updates the checkout the process serves from by running a
// single bounded git pull before the HTTP listener comes up.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	ctxInternal "github.com/Codehub169/tempo-6db3fc58/server/context"
	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/metrics"
	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
)

// PullStatus classifies the outcome of the startup pull.
type PullStatus int

const (
	PullUpdated     PullStatus = iota // exit 0, checkout is current
	PullFailed                        // nonzero exit, e.g. conflicts or unreachable remote
	PullToolMissing                   // git binary not installed
	PullTimedOut                      // bound elapsed before the pull finished
	PullFaulted                       // anything else
)

func (s PullStatus) String() string {
	switch s {
	case PullUpdated:
		return "updated"
	case PullFailed:
		return "failed"
	case PullToolMissing:
		return "tool_missing"
	case PullTimedOut:
		return "timed_out"
	}
	return "faulted"
}

// PullResult records the one startup pull. It is logged and discarded, never
// stored or re-inspected later.
type PullResult struct {
	Status   PullStatus
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// RepoSynchronizer runs git pull against the checkout once per process
// start. Every outcome is logged and swallowed: serving a stale bundle beats
// not serving at all, so startup proceeds regardless.
type RepoSynchronizer struct {
	RepoDir string
	Timeout time.Duration
	Logger  logging.Logger
	Scope   tally.Scope

	// TestingOverrideGitBin points the synchronizer at a stub binary during
	// testing. If it's empty the git on PATH is used.
	TestingOverrideGitBin string
}

// Sync performs the pull, classifies the outcome and logs it. It never
// returns an error.
func (s *RepoSynchronizer) Sync(ctx context.Context) PullResult {
	s.Logger.InfoContext(ctx, "attempting to pull latest changes before serving")

	start := time.Now()
	result := s.pull(ctx)
	s.Scope.Timer(metrics.PullLatencyMetric).Record(time.Since(start))

	s.record(ctx, result)
	return result
}

func (s *RepoSynchronizer) pull(ctx context.Context) PullResult {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	gitBin := s.TestingOverrideGitBin
	if gitBin == "" {
		gitBin = "git"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, gitBin, "pull") // nolint: gosec
	cmd.Dir = s.RepoDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := PullResult{
		Stdout: lossyString(stdout.Bytes()),
		Stderr: lossyString(stderr.Bytes()),
		Err:    err,
	}

	switch {
	case err == nil:
		result.Status = PullUpdated
	case ctx.Err() == context.DeadlineExceeded:
		result.Status = PullTimedOut
	case errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist):
		result.Status = PullToolMissing
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Status = PullFailed
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.Status = PullFaulted
		}
	}
	return result
}

func (s *RepoSynchronizer) record(ctx context.Context, result PullResult) {
	switch result.Status {
	case PullUpdated:
		s.Scope.Counter(metrics.PullSuccessMetric).Inc(1)
		s.Logger.InfoContext(ctx, "git pull succeeded")
		if out := strings.TrimSpace(result.Stdout); out != "" {
			s.Logger.InfoContext(ctx, fmt.Sprintf("git pull output:\n%s", out))
		}
	case PullFailed:
		s.Scope.Counter(metrics.PullFailureMetric).Inc(1)
		s.Logger.WarnContext(
			ctx,
			fmt.Sprintf("git pull exited with status %d, serving the existing checkout", result.ExitCode),
			map[string]interface{}{"stdout": strings.TrimSpace(result.Stdout), "stderr": strings.TrimSpace(result.Stderr)},
		)
	case PullToolMissing:
		s.Scope.Counter(metrics.PullToolMissingMetric).Inc(1)
		s.Logger.WarnContext(ctx, "git not found, make sure git is installed and in PATH. Skipping pull")
	case PullTimedOut:
		s.Scope.Counter(metrics.PullTimeoutMetric).Inc(1)
		s.Logger.WarnContext(ctx, fmt.Sprintf("git pull did not finish within %s, serving the existing checkout", s.Timeout))
	default:
		s.Scope.Counter(metrics.PullErrorMetric).Inc(1)
		s.Logger.ErrorContext(
			ctx,
			"unexpected error running git pull",
			map[string]interface{}{ctxInternal.ErrKey: fmt.Sprintf("%s (%T)", result.Err, result.Err)},
		)
	}
}

// git output is not guaranteed to be valid UTF-8; replace what isn't so a
// weird byte can't corrupt the log stream.
func lossyString(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
