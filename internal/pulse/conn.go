// Package pulse drives a PulseAudio (or pipewire-pulse) server over its
// native protocol.
package pulse

import (
	"errors"
	"fmt"
	"net"

	"github.com/jfreymuth/pulse/proto"
)

// ErrServerUnavailable means no audio server accepted the connection.
var ErrServerUnavailable = errors.New("audio server unavailable")

// Conn is one protocol connection.
type Conn interface {
	Request(req proto.RequestArgs, rpl proto.Reply) error
	Close() error
}

// Dialer opens a connection to server. onMessage receives every message the
// server sends on its own (events, record data, stream kills, close) and runs
// on the connection's read goroutine, so it must not issue requests.
type Dialer func(server string, onMessage func(interface{})) (Conn, error)

type protoConn struct {
	client *proto.Client
	conn   net.Conn
}

func (c *protoConn) Request(req proto.RequestArgs, rpl proto.Reply) error {
	return c.client.Request(req, rpl)
}

func (c *protoConn) Close() error {
	return c.conn.Close()
}

// Dial connects to a real server. An empty server string follows
// PULSE_SERVER and then the per-user native socket.
func Dial(server string, onMessage func(interface{})) (Conn, error) {
	client, conn, err := proto.Connect(server)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
	if client == nil {
		// every server string named another host
		return nil, fmt.Errorf("%w: no usable server in %q", ErrServerUnavailable, server)
	}
	client.Callback = onMessage
	return &protoConn{client: client, conn: conn}, nil
}
