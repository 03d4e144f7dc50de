package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Unnamed1242/mkw-sp/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is the client side of an encrypted websocket room connection.
//
// Dial returns once the socket is open; the key exchange completes in the
// background and Ready reports when it has.
type Client struct {
	cfg  Config
	conn *websocket.Conn
	kx   *keyExchange

	send    chan []byte
	receive chan []byte
	done    chan struct{}

	dialedAt time.Time
	ready    atomic.Bool
	keys     KeyPair
	tx       *sealer
	rx       *sealer

	mu     sync.Mutex
	err    error
	closed bool
}

var _ Transport = (*Client)(nil)

// Dial connects to cfg.URL and starts the handshake.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	kx, err := newKeyExchange()
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}
	conn.SetReadLimit(int64(cfg.MaxMessageSize))

	c := &Client{
		cfg:      cfg,
		conn:     conn,
		kx:       kx,
		send:     make(chan []byte, cfg.SendBufferSize),
		receive:  make(chan []byte, cfg.RecvBufferSize),
		done:     make(chan struct{}),
		dialedAt: time.Now(),
	}

	// The public key goes first; writePump sends queued frames in order.
	c.send <- append([]byte(nil), kx.public[:]...)

	go c.readPump()
	go c.writePump()

	return c, nil
}

// Ready reports whether the key exchange has completed.
func (c *Client) Ready() bool {
	return c.ready.Load()
}

// Poll surfaces pump failures and handshake timeouts.
func (c *Client) Poll() error {
	if err := c.failure(); err != nil {
		return err
	}
	if !c.ready.Load() && c.cfg.HandshakeTimeout > 0 && time.Since(c.dialedAt) > c.cfg.HandshakeTimeout {
		c.fail(ErrHandshakeTimeout)
		return ErrHandshakeTimeout
	}
	return nil
}

// Read copies the next queued message into buf without blocking.
func (c *Client) Read(buf []byte) (int, error) {
	select {
	case msg := <-c.receive:
		if len(msg) > len(buf) {
			return 0, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(msg), len(buf))
		}
		return copy(buf, msg), nil
	default:
	}

	if err := c.failure(); err != nil {
		return 0, err
	}
	return 0, nil
}

// Write seals p and queues it for sending without blocking.
func (c *Client) Write(p []byte) error {
	if err := c.failure(); err != nil {
		return err
	}
	if !c.ready.Load() {
		return ErrNotReady
	}

	// 先检查容量再加密：被丢弃的帧不能消耗 nonce。只有 tick 协程写入 send。
	if len(c.send) == cap(c.send) {
		return ErrSendBufferFull
	}
	c.send <- c.tx.seal(p)
	return nil
}

// KeyPair returns the session keys; zero until Ready.
func (c *Client) KeyPair() KeyPair {
	if !c.ready.Load() {
		return KeyPair{}
	}
	return c.keys
}

// Close shuts the connection down. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.err == nil {
		c.err = ErrClosed
	}
	close(c.done)
	return c.conn.Close()
}

func (c *Client) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// fail records the first failure and tears the connection down.
func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
		logger.LogError("room transport failed: %v", err)
	}
	c.mu.Unlock()
	_ = c.Close()
}

// completeHandshake derives the session keys from the server's public key.
func (c *Client) completeHandshake(serverPub []byte) error {
	keys, err := c.kx.sessionKeys(serverPub, c.kx.public[:], serverPub, true)
	if err != nil {
		return err
	}
	tx, err := newSealer(keys.Tx)
	if err != nil {
		return err
	}
	rx, err := newSealer(keys.Rx)
	if err != nil {
		return err
	}

	c.keys = keys
	c.tx = tx
	c.rx = rx
	c.ready.Store(true)
	logger.LogInfo("room transport ready: %s", c.cfg.URL)
	return nil
}
