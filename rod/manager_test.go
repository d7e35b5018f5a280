package rod_test

import (
	"context"
	"testing"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_Close_WithoutOpenIsNoop(t *testing.T) {
	t.Parallel()

	manager := rod.NewSessionManager()

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.Zero(t, manager.LauncherPID())
}

func TestSessionManager_Open_AfterCloseFails(t *testing.T) {
	t.Parallel()

	manager := rod.NewSessionManager()
	require.NoError(t, manager.Close())

	_, err := manager.Open(context.Background())

	require.Error(t, err)
	assert.False(t, postpdf.Retryable(err))
}

func TestSessionManager_Open_CanceledContext(t *testing.T) {
	t.Parallel()

	manager := rod.NewSessionManager()
	defer manager.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.Open(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, manager.LauncherPID(), "no browser should be launched")
}
