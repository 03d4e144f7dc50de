//go:build !production

package testutil

import (
	"bytes"
	"fmt"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/protocol/codec"
	"github.com/Unnamed1242/mkw-sp/internal/transport"
)

// FakeTransport 实现 transport.Transport 的内存版本
// 事件按 Push 顺序每次 Read 返回一条，写入的请求被记录下来
type FakeTransport struct {
	IsReady  bool
	Inbox    [][]byte
	Written  [][]byte
	Keys     transport.KeyPair
	PollErr  error
	ReadErr  error
	WriteErr error
	Polls    int
	Closed   bool
}

// NewFakeTransport returns a transport that is already ready.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{IsReady: true}
}

func (f *FakeTransport) Ready() bool { return f.IsReady }

func (f *FakeTransport) Poll() error {
	f.Polls++
	return f.PollErr
}

func (f *FakeTransport) Read(buf []byte) (int, error) {
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	if len(f.Inbox) == 0 {
		return 0, nil
	}
	msg := f.Inbox[0]
	if len(msg) > len(buf) {
		return 0, transport.ErrMessageTooLarge
	}
	f.Inbox = f.Inbox[1:]
	return copy(buf, msg), nil
}

func (f *FakeTransport) Write(p []byte) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.Written = append(f.Written, bytes.Clone(p))
	return nil
}

func (f *FakeTransport) KeyPair() transport.KeyPair { return f.Keys }

func (f *FakeTransport) Close() error {
	f.Closed = true
	return nil
}

// Push encodes and queues events. It panics on events the codec rejects.
func (f *FakeTransport) Push(events ...protocol.Event) {
	for _, ev := range events {
		b, err := codec.EncodeEvent(ev)
		if err != nil {
			panic(fmt.Sprintf("testutil: encode %T: %v", ev, err))
		}
		f.Inbox = append(f.Inbox, b)
	}
}

// PushRaw queues raw bytes as one message.
func (f *FakeTransport) PushRaw(b []byte) {
	f.Inbox = append(f.Inbox, bytes.Clone(b))
}

// Requests decodes every written message.
func (f *FakeTransport) Requests() ([]protocol.Request, error) {
	reqs := make([]protocol.Request, 0, len(f.Written))
	for _, b := range f.Written {
		req, err := codec.DecodeRequest(b)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
