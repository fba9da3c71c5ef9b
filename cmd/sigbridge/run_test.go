package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/sigbridge/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func observed(t *testing.T, out string) []int {
	t.Helper()

	var values []int
	for _, line := range strings.Fields(out) {
		v, err := strconv.Atoi(line)
		require.NoError(t, err, line)
		values = append(values, v)
	}
	return values
}

func TestRun(t *testing.T) {
	t.Run("counter source", func(t *testing.T) {
		out, err := execute(t, "run", "--log-level", "error", "--source", "counter", "--interval", "2ms", "--count", "5", "--initial=-1")
		require.NoError(t, err)

		values := observed(t, out)
		require.NotEmpty(t, values)
		assert.Equal(t, -1, values[0])
		assert.Equal(t, 5, values[len(values)-1])
		assert.IsIncreasing(t, values)
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sigbridge.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
log_level: error
source:
  kind: cron
  cron: "@every 1s"
  count: 1
  initial: 100
`), 0o600))

		out, err := execute(t, "run", "--config", path)
		require.NoError(t, err)
		assert.Equal(t, []int{100, 1}, observed(t, out))
	})

	t.Run("websocket source", func(t *testing.T) {
		upgrader := websocket.Upgrader{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()

			for _, v := range []int{4, 8, 15} {
				conn.WriteJSON(v)
			}
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			conn.ReadMessage()
		}))
		defer srv.Close()

		url := "ws" + strings.TrimPrefix(srv.URL, "http")
		out, err := execute(t, "run", "--log-level", "error", "--source", "websocket", "--url", url)
		require.NoError(t, err)

		values := observed(t, out)
		assert.Equal(t, 0, values[0])
		assert.Equal(t, 15, values[len(values)-1])
	})

	t.Run("invalid configuration", func(t *testing.T) {
		_, err := execute(t, "run", "--source", "kafka")
		assert.ErrorIs(t, err, config.ErrUnknownSource)

		_, err = execute(t, "run", "--source", "websocket")
		assert.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"run", "--log-level", "error", "--interval", "1ms", "--count", "0"})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.NoError(t, cmd.ExecuteContext(ctx))
		assert.Equal(t, 0, observed(t, out.String())[0])
	})
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
