// Package transport provides the message-oriented, encrypted connection the
// room client talks over.
package transport

import (
	"errors"
	"time"
)

// Transport is a non-blocking, in-order message pipe.
//
// Read returns n == 0 with a nil error when no message is queued; any error
// from Read, Write or Poll means the session is unusable.
type Transport interface {
	Ready() bool
	Poll() error
	Read(buf []byte) (int, error)
	Write(p []byte) error
	KeyPair() KeyPair
	Close() error
}

// KeySize is the length of every session key.
const KeySize = 32

// KeyPair holds the per-direction session keys derived during the handshake.
type KeyPair struct {
	Rx [KeySize]byte
	Tx [KeySize]byte
}

var (
	ErrNotReady         = errors.New("transport: handshake not complete")
	ErrClosed           = errors.New("transport: connection closed")
	ErrSendBufferFull   = errors.New("transport: send buffer full")
	ErrRecvOverflow     = errors.New("transport: receive buffer overflow")
	ErrMessageTooLarge  = errors.New("transport: message too large")
	ErrHandshakeTimeout = errors.New("transport: handshake timed out")
	ErrBadHandshake     = errors.New("transport: bad handshake")
	ErrDecrypt          = errors.New("transport: message authentication failed")
)

// Config holds transport configuration.
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	SendBufferSize   int
	RecvBufferSize   int
	MaxMessageSize   int
}

// DefaultConfig returns sensible defaults for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		SendBufferSize:   64,
		RecvBufferSize:   256,
		MaxMessageSize:   2048,
	}
}
