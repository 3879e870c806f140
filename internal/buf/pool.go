package buf

import "sync"

// DefaultChunkSize is the size of pooled copy buffers.
const DefaultChunkSize = 1 << 20

// maxPooled keeps oversized buffers from being retained between runs.
const maxPooled = 4 << 20

var chunkPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, DefaultChunkSize)
		return &b
	},
}

// GetChunk returns a buffer of exactly size bytes. A non-positive size
// selects DefaultChunkSize.
func GetChunk(size int) *[]byte {
	if size <= 0 {
		size = DefaultChunkSize
	}
	b, ok := chunkPool.Get().(*[]byte)
	if !ok {
		panic("chunkPool returned unexpected type")
	}
	if cap(*b) < size {
		nb := make([]byte, size)
		return &nb
	}
	*b = (*b)[:size]
	return b
}

// PutChunk returns b to the pool.
func PutChunk(b *[]byte) {
	if b == nil || cap(*b) > maxPooled {
		return
	}
	*b = (*b)[:cap(*b)]
	chunkPool.Put(b)
}
