package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStop_NilHandle(t *testing.T) {
	assert.NoError(t, Stop(nil))
}

func TestStart_EmptyCommand(t *testing.T) {
	h, err := Start(Spec{})
	require.Error(t, err)
	assert.Nil(t, h)
	assert.True(t, cerrors.IsType(err, cerrors.ErrorTypeWatcher))
}

func TestStart_UnknownBinary(t *testing.T) {
	h, err := Start(Spec{Args: []string{"/nonexistent/kubectl", "get", "pods"}})
	require.Error(t, err)
	assert.Nil(t, h)
}

func TestStop_GracefulTermination(t *testing.T) {
	h, err := Start(Spec{Args: []string{"sleep", "30"}})
	require.NoError(t, err)
	assert.NotZero(t, h.PID())

	require.NoError(t, Stop(h))
	assert.False(t, h.Forced())

	select {
	case <-h.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher process was not reaped")
	}
}

func TestStop_AlreadyExitedProcessIsKilledQuietly(t *testing.T) {
	h, err := Start(Spec{Args: []string{"true"}})
	require.NoError(t, err)

	select {
	case <-h.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}

	require.NoError(t, Stop(h))
	assert.True(t, h.Forced(), "a finished process must go through the kill path")
}

func TestStop_EscalatesWhenTermIsIgnored(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "watch.log")
	h, err := Start(Spec{
		Args:        []string{"sh", "-c", "trap '' TERM; echo ready; while true; do sleep 0.1; done"},
		LogPath:     logPath,
		StopTimeout: 300 * time.Millisecond,
	})
	require.NoError(t, err)

	waitForContent(t, logPath, "ready")

	require.NoError(t, Stop(h))
	assert.True(t, h.Forced())

	select {
	case <-h.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher process was not reaped after SIGKILL")
	}
}

func TestStop_Idempotent(t *testing.T) {
	h, err := Start(Spec{Args: []string{"sleep", "30"}})
	require.NoError(t, err)

	require.NoError(t, Stop(h))
	require.NoError(t, Stop(h))
}

func TestStart_LogFileReceivesBothStreams(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "pod_monitoring.log")
	h, err := Start(Spec{Args: []string{"sh", "-c", "echo out; echo err >&2"}, LogPath: logPath})
	require.NoError(t, err)
	assert.Equal(t, logPath, h.LogPath())

	<-h.Exited()
	require.NoError(t, Stop(h))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "out")
	assert.Contains(t, string(content), "err")
	assert.Empty(t, h.Output())
}

func TestStart_CaptureWithoutLogFile(t *testing.T) {
	h, err := Start(Spec{Args: []string{"sh", "-c", "echo captured; echo also >&2"}})
	require.NoError(t, err)

	<-h.Exited()
	require.NoError(t, Stop(h))
	assert.Contains(t, h.Output(), "captured")
	assert.Contains(t, h.Output(), "also")
}

func TestBoundedBuffer(t *testing.T) {
	b := newBoundedBuffer(8)

	_, _ = b.Write([]byte("abcd"))
	_, _ = b.Write([]byte("efgh"))
	assert.Equal(t, "abcdefgh", b.String())

	_, _ = b.Write([]byte("ij"))
	assert.Equal(t, "cdefghij", b.String())

	n, err := b.Write([]byte(strings.Repeat("x", 20) + "tail"))
	require.NoError(t, err)
	assert.Equal(t, 24, n)
	assert.Equal(t, "xxxxtail", b.String())
}

func waitForContent(t *testing.T, path, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if content, err := os.ReadFile(path); err == nil && strings.Contains(string(content), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("%s never contained %q", path, want)
}
