package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestWire(t *testing.T, closeErr error) (*Wire, *bool) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Home = t.TempDir()
	w, err := NewWire(cfg)
	require.NoError(t, err)
	closed := false
	w.close = func() error {
		closed = true
		return closeErr
	}
	return w, &closed
}

func TestWire_ShutdownReturnsCloseError(t *testing.T) {
	errClose := errors.New("close failed")
	w, closed := newTestWire(t, errClose)
	require.NoError(t, w.InitStorageKey("pass"))
	svc, err := w.Conversations("pass")
	require.NoError(t, err)
	_, err = svc.Create()
	require.NoError(t, err)

	require.ErrorIs(t, w.Shutdown(context.Background(), svc), errClose)
	require.True(t, *closed)
}

func TestWire_ShutdownClosesAfterFailedFlush(t *testing.T) {
	w, closed := newTestWire(t, errors.New("close failed"))
	require.NoError(t, w.InitStorageKey("pass"))
	svc, err := w.Conversations("pass")
	require.NoError(t, err)
	_, err = svc.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Shutdown(ctx, svc), context.Canceled)
	require.True(t, *closed)
}

func TestWire_ShutdownWithoutService(t *testing.T) {
	w, closed := newTestWire(t, nil)
	require.NoError(t, w.Shutdown(context.Background(), nil))
	require.True(t, *closed)
}
