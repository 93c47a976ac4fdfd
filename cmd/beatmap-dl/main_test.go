package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/beatmap-downloader/internal/app"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("2 of 3 downloads failed")))
	assert.Equal(t, 130, exitCode(errCancelled))
	assert.Equal(t, 130, exitCode(errors.Wrap(errCancelled, "key")))
}

func TestRun_CancelledReturnsSentinel(t *testing.T) {
	opts := &rootOptions{
		output:  filepath.Join(t.TempDir(), "CustomLevels"),
		envFile: filepath.Join(t.TempDir(), "missing.env"),
	}

	parent, cancel := context.WithCancel(context.Background())
	cancel()

	err := opts.run(parent, func(ctx context.Context, a *app.App) error {
		return ctx.Err()
	})
	require.ErrorIs(t, err, errCancelled)
	assert.Equal(t, 130, exitCode(err))
}

func TestRun_PassesThroughErrors(t *testing.T) {
	opts := &rootOptions{
		output:  filepath.Join(t.TempDir(), "CustomLevels"),
		envFile: filepath.Join(t.TempDir(), "missing.env"),
	}
	failure := errors.New("1 of 1 downloads failed")

	err := opts.run(context.Background(), func(ctx context.Context, a *app.App) error { return failure })
	assert.Equal(t, failure, err)
	assert.Equal(t, 1, exitCode(err))
}
