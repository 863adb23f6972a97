package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestService(t *testing.T, opts ...ServiceOption) (*GameService, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	opts = append([]ServiceOption{WithClock(clock), WithSeed(42)}, opts...)
	return NewGameService(testLogger(), opts...), clock
}

func newTestServer(t *testing.T, opts ...ServiceOption) (*Server, *httptest.Server) {
	t.Helper()
	service, _ := newTestService(t, opts...)
	srv := NewServer("127.0.0.1:0", service, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.cancel()
		ts.Close()
	})
	return srv, ts
}

// showdownDeck stacks Alice AS AC, Bob KH KD and a KS KC 2D 3D 4D board
func showdownDeck() game.Option {
	return game.WithStackedDeck(poker.MustParseCards("AS", "AC", "KH", "KD", "KS", "KC", "2D", "3D", "4D")...)
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func dialWatch(t *testing.T, ts *httptest.Server, gameID, player string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/" + gameID + "/ws"
	if player != "" {
		url += "?player=" + player
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}
