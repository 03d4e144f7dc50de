package codec

import "sync"

// maxPooledSize 超过此容量的缓冲区不放回池中
const maxPooledSize = 4 * MaxRequestSize

// scratchPool 复用请求编码时的临时缓冲区，每帧都可能编码请求
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, MaxRequestSize)
		return &b
	},
}

func getScratch() *[]byte {
	b := scratchPool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// putScratch returns b to the pool unless it grew past maxPooledSize.
func putScratch(b *[]byte) {
	if b == nil || cap(*b) > maxPooledSize {
		return
	}
	scratchPool.Put(b)
}
