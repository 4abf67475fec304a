package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrGit is wrapped by every failing git invocation.
var ErrGit = errors.New("git command failed")

// Git commits the playlist file and pushes it to a remote.
type Git struct {
	cfg    GitConfig
	path   string
	logger *zap.Logger
}

// NewGit creates a git publisher for the file at path, which must live inside
// cfg.Dir.
func NewGit(cfg GitConfig, path string, logger *zap.Logger) *Git {
	if cfg.Remote == "" {
		cfg.Remote = "origin"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Git{cfg: cfg, path: path, logger: logger}
}

// Publish stages the playlist, commits it with summary as message and pushes.
// When git sees no staged difference nothing is committed. The content is
// already on disk, so it is not used.
func (g *Git) Publish(ctx context.Context, _ []byte, summary string) error {
	rel, err := g.relPath()
	if err != nil {
		return err
	}

	if _, err := g.run(ctx, "config", "user.name", g.cfg.UserName); err != nil {
		return err
	}
	if _, err := g.run(ctx, "config", "user.email", g.cfg.UserEmail); err != nil {
		return err
	}
	if _, err := g.run(ctx, "add", "--", rel); err != nil {
		return err
	}

	staged, err := g.hasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		g.logger.Info("No staged changes, skipping commit", zap.String("path", rel))
		return nil
	}

	if _, err := g.run(ctx, "commit", "-m", summary); err != nil {
		return err
	}

	ref := "HEAD"
	if g.cfg.Branch != "" {
		ref = "HEAD:" + g.cfg.Branch
	}
	if _, err := g.run(ctx, "push", g.cfg.Remote, ref); err != nil {
		return err
	}

	g.logger.Info("Pushed playlist", zap.String("path", rel), zap.String("remote", g.cfg.Remote))
	return nil
}

// hasStagedChanges runs `git diff --cached --quiet`, which exits 1 when the
// index differs from HEAD.
func (g *Git) hasStagedChanges(ctx context.Context) (bool, error) {
	_, err := g.run(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

func (g *Git) relPath() (string, error) {
	if g.cfg.Dir == "" || !filepath.IsAbs(g.path) {
		return g.path, nil
	}
	rel, err := filepath.Rel(g.cfg.Dir, g.path)
	if err != nil {
		return "", fmt.Errorf("playlist outside repository: %w", err)
	}
	return rel, nil
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.cfg.Dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: git %s: %s: %w", ErrGit, args[0], strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}
