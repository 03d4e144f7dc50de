package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ServerSession is the room-server side of an encrypted connection. Send and
// Receive block; each may be used from one goroutine at a time.
type ServerSession struct {
	conn *websocket.Conn
	keys KeyPair

	sendMu sync.Mutex
	tx     *sealer
	rx     *sealer
}

// Accept runs the server side of the key exchange on an upgraded connection.
func Accept(conn *websocket.Conn, timeout time.Duration) (*ServerSession, error) {
	if timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
		defer func() { _ = conn.SetReadDeadline(time.Time{}) }()
	}

	_, clientPub, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHandshake, err)
	}

	kx, err := newKeyExchange()
	if err != nil {
		return nil, err
	}
	keys, err := kx.sessionKeys(clientPub, clientPub, kx.public[:], false)
	if err != nil {
		return nil, err
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, kx.public[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHandshake, err)
	}

	tx, err := newSealer(keys.Tx)
	if err != nil {
		return nil, err
	}
	rx, err := newSealer(keys.Rx)
	if err != nil {
		return nil, err
	}
	return &ServerSession{conn: conn, keys: keys, tx: tx, rx: rx}, nil
}

// KeyPair returns the server's session keys.
func (s *ServerSession) KeyPair() KeyPair { return s.keys }

// Send seals and writes one message.
func (s *ServerSession) Send(p []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, s.tx.seal(p))
}

// Receive reads and opens one message.
func (s *ServerSession) Receive() ([]byte, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return s.rx.open(msg)
}

// Close closes the underlying connection.
func (s *ServerSession) Close() error {
	return s.conn.Close()
}
