package stripeio

import (
	"io"
)

// ChunkByteReader adapts a SeekableByteStream's chunked Next() into the
// byte-at-a-time and bulk-read interfaces the rle decoders and the column
// readers decode against.
type ChunkByteReader struct {
	stream SeekableByteStream
	cur    []byte
	pos    int
}

func NewChunkByteReader(stream SeekableByteStream) *ChunkByteReader {
	return &ChunkByteReader{stream: stream}
}

func (r *ChunkByteReader) fill() error {
	for r.pos >= len(r.cur) {
		chunk, err := r.stream.Next()
		if err != nil {
			return err
		}
		r.cur = chunk
		r.pos = 0
	}
	return nil
}

// ReadByte implements io.ByteReader.
func (r *ChunkByteReader) ReadByte() (byte, error) {
	if err := r.fill(); err != nil {
		return 0, err
	}
	b := r.cur[r.pos]
	r.pos++
	return b, nil
}

// Read implements io.Reader, copying across as many chunks as needed to
// satisfy len(p), short-reading only at end of stream.
func (r *ChunkByteReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if err := r.fill(); err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		c := copy(p[n:], r.cur[r.pos:])
		r.pos += c
		n += c
	}
	return n, nil
}

// Skip discards n bytes without materializing them.
func (r *ChunkByteReader) Skip(n int) error {
	for n > 0 {
		if err := r.fill(); err != nil {
			return err
		}
		avail := len(r.cur) - r.pos
		if avail > n {
			avail = n
		}
		r.pos += avail
		n -= avail
	}
	return nil
}

// Reset drops any buffered chunk, forcing the next read to pull fresh from
// the underlying stream, so that after the stream is repositioned via Seek
// no stale buffered bytes from before the seek are read. The column readers
// do not call it; they build a new ChunkByteReader after each Seek instead.
func (r *ChunkByteReader) Reset() {
	r.cur = nil
	r.pos = 0
}

var _ io.ByteReader = (*ChunkByteReader)(nil)
var _ io.Reader = (*ChunkByteReader)(nil)
