package ipc

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendRoundtrip(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "fraudshield.sock")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener, err := Acquire(ctx, socketPath, 100*time.Millisecond, 2)
	require.NoError(t, err)

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			switch req.Command {
			case "status":
				return Response{OK: true, State: "capturing", Message: "status"}
			case "text":
				return Response{OK: true, Message: "transcript replaced: " + req.Text}
			default:
				return Response{OK: false, Error: "unknown command: " + req.Command}
			}
		}))
	}()

	resp, err := Send(ctx, socketPath, Request{Command: "status"}, time.Second)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, "capturing", resp.State)

	resp, err = Send(ctx, socketPath, Request{Command: "text", Text: "typed transcript"}, time.Second)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, "transcript replaced: typed transcript", resp.Message)

	resp, err = Send(ctx, socketPath, Request{Command: "bogus"}, time.Second)
	require.NoError(t, err)
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "unknown command")

	cancel()
	require.NoError(t, <-serveDone)
}

func TestProbeMissingSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "missing.sock")
	alive, err := Probe(context.Background(), socketPath, 100*time.Millisecond)
	require.NoError(t, err)
	require.False(t, alive)
}

func TestAcquireRefusesLiveOwner(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "fraudshield.sock")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener, err := Acquire(ctx, socketPath, 100*time.Millisecond, 2)
	require.NoError(t, err)

	go func() {
		_ = Serve(ctx, listener, HandlerFunc(func(context.Context, Request) Response {
			return Response{OK: true, State: "capturing"}
		}))
	}()

	// Give the server a beat to start accepting.
	require.Eventually(t, func() bool {
		alive, probeErr := Probe(ctx, socketPath, 100*time.Millisecond)
		return probeErr == nil && alive
	}, time.Second, 20*time.Millisecond)

	_, err = Acquire(ctx, socketPath, 100*time.Millisecond, 1)
	require.ErrorIs(t, err, ErrAlreadyRunning)
}
