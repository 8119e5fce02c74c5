package sync_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/sync"
	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v4"
)

func TestSync_Success(t *testing.T) {
	s := newSynchronizer(t, stubGit(t, "echo 'Already up to date.'\nexit 0"))

	result := s.Sync(context.Background())

	assert.Equal(t, sync.PullUpdated, result.Status)
	assert.Contains(t, result.Stdout, "Already up to date.")
}

func TestSync_NonzeroExitContinues(t *testing.T) {
	s := newSynchronizer(t, stubGit(t, "echo 'fatal: unable to access remote' >&2\nexit 128"))

	result := s.Sync(context.Background())

	assert.Equal(t, sync.PullFailed, result.Status)
	assert.Equal(t, 128, result.ExitCode)
	assert.Contains(t, result.Stderr, "unable to access remote")
}

func TestSync_ToolMissing(t *testing.T) {
	s := newSynchronizer(t, filepath.Join(t.TempDir(), "definitely-not-git"))

	result := s.Sync(context.Background())

	assert.Equal(t, sync.PullToolMissing, result.Status)
}

func TestSync_Timeout(t *testing.T) {
	s := newSynchronizer(t, stubGit(t, "sleep 10"))
	s.Timeout = 100 * time.Millisecond

	start := time.Now()
	result := s.Sync(context.Background())

	assert.Equal(t, sync.PullTimedOut, result.Status)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// Pull against a real upstream: a second commit lands in origin after the
// clone, and a sync brings it into the checkout.
func TestSync_RealRepoPullsNewCommit(t *testing.T) {
	originDir := initRepo(t)
	appendCommit(t, originDir, "index.html", "initial commit")

	checkoutDir := t.TempDir()
	runCmd(t, checkoutDir, "git", "clone", fmt.Sprintf("file://%s", originDir), ".")

	appendCommit(t, originDir, "main.js", "second commit")

	s := newSynchronizer(t, "")
	s.RepoDir = checkoutDir
	result := s.Sync(context.Background())

	assert.Equal(t, sync.PullUpdated, result.Status)
	_, err := os.Stat(filepath.Join(checkoutDir, "main.js"))
	assert.NoError(t, err)
}

func TestPullStatus_String(t *testing.T) {
	cases := []struct {
		status sync.PullStatus
		exp    string
	}{
		{sync.PullUpdated, "updated"},
		{sync.PullFailed, "failed"},
		{sync.PullToolMissing, "tool_missing"},
		{sync.PullTimedOut, "timed_out"},
		{sync.PullFaulted, "faulted"},
	}
	for _, c := range cases {
		t.Run(c.exp, func(t *testing.T) {
			assert.Equal(t, c.exp, c.status.String())
		})
	}
}

func newSynchronizer(t *testing.T, gitBin string) *sync.RepoSynchronizer {
	return &sync.RepoSynchronizer{
		RepoDir:               t.TempDir(),
		Timeout:               60 * time.Second,
		Logger:                logging.NewNoopCtxLogger(t),
		Scope:                 tally.NewTestScope("test", nil),
		TestingOverrideGitBin: gitBin,
	}
}

// stubGit writes an executable shell script standing in for the git binary.
func stubGit(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "git")
	script := fmt.Sprintf("#!/bin/sh\n%s\n", body)
	err := os.WriteFile(path, []byte(script), 0o755)
	assert.NoError(t, err)
	return path
}

func initRepo(t *testing.T) string {
	repoDir := t.TempDir()
	runCmd(t, repoDir, "git", "init")
	return repoDir
}

func appendCommit(t *testing.T, repoDir string, fileName string, commitMessage string) {
	runCmd(t, repoDir, "touch", fileName)
	runCmd(t, repoDir, "git", "add", fileName)
	runCmd(t, repoDir, "git", "config", "--local", "user.email", "tempo@localhost")
	runCmd(t, repoDir, "git", "config", "--local", "user.name", "tempo")
	runCmd(t, repoDir, "git", "commit", "-m", commitMessage)
}

func runCmd(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	assert.NoError(t, err, "running %s %s: %s", name, strings.Join(args, " "), string(out))
	return string(out)
}
