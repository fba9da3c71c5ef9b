package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketStream decodes every message read from a websocket connection.
// A normal closure from the peer ends the stream.
type WebSocketStream[T any] struct {
	conn   *websocket.Conn
	decode func([]byte) (T, error)
}

func WebSocket[T any](conn *websocket.Conn, decode func([]byte) (T, error)) *WebSocketStream[T] {
	return &WebSocketStream[T]{conn: conn, decode: decode}
}

// WebSocketJSON decodes each message as JSON.
func WebSocketJSON[T any](conn *websocket.Conn) *WebSocketStream[T] {
	return WebSocket(conn, decodeJSON[T])
}

// DialWebSocket connects to url and decodes each message with decode.
func DialWebSocket[T any](ctx context.Context, url string, decode func([]byte) (T, error)) (*WebSocketStream[T], error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	return WebSocket(conn, decode), nil
}

func (s *WebSocketStream[T]) Next(ctx context.Context) (T, error) {
	var zero T

	// unblock the pending read when ctx ends, the connection is unusable afterwards
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return zero, ErrEnd
		}
		return zero, err
	}

	return s.decode(data)
}

// Close sends a close frame and closes the connection.
func (s *WebSocketStream[T]) Close() error {
	// best effort, the peer may already be gone
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))

	return s.conn.Close()
}

func decodeJSON[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
