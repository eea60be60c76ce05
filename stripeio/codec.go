package stripeio

import (
	"bytes"
	"compress/flate"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// CompressionKind mirrors the set of codecs a stripe may declare, matching
// the names the teacher's dropped `pb.CompressionKind` enum carried.
type CompressionKind int

const (
	CompressionNone CompressionKind = iota
	CompressionZlib
	CompressionSnappy
	CompressionZstd
)

// compressed chunk header: 3 bytes, low bit of byte 0 is the "original"
// (stored, not compressed) flag, the remaining 23 bits are the chunk's
// on-disk length.
func decodeChunkHeader(h []byte) (length int, original bool) {
	_ = h[2]
	return int(h[2])<<15 | int(h[1])<<7 | int(h[0])>>1, h[0]&0x01 == 0x01
}

// CompressedStream is a SeekableByteStream over a fully-buffered compressed
// byte range (one column's worth of one stream within a stripe), where the
// bytes are chunked per the ORC compressed-stream framing: each chunk is
// prefixed by the 3-byte header above, and is either stored verbatim or
// holds one independently-compressed block.
type CompressedStream struct {
	streamName string
	kind       CompressionKind
	raw        *bytes.Reader

	pending []byte // leftover decompressed bytes from a Skip that landed mid-chunk
}

func NewCompressedStream(name string, kind CompressionKind, data []byte) *CompressedStream {
	return &CompressedStream{
		streamName: name,
		kind:       kind,
		raw:        bytes.NewReader(data),
	}
}

func (s *CompressedStream) Name() string { return s.streamName }

func (s *CompressedStream) Next() ([]byte, error) {
	if len(s.pending) > 0 {
		out := s.pending
		s.pending = nil
		return out, nil
	}

	if s.kind == CompressionNone {
		buf := make([]byte, 65536)
		n, err := s.raw.Read(buf)
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return nil, err
		}
		return buf[:n], nil
	}

	header := make([]byte, 3)
	if _, err := io.ReadFull(s.raw, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, err
	}
	length, original := decodeChunkHeader(header)

	body := make([]byte, length)
	if _, err := io.ReadFull(s.raw, body); err != nil {
		return nil, errors.WithStack(err)
	}
	if original {
		return body, nil
	}
	return s.decompressChunk(body)
}

// ORC's ZLIB chunks are raw DEFLATE with no zlib (RFC1950) wrapper or
// Adler32 trailer, so compress/flate is what's wired here rather than
// go-zlib: go-zlib mirrors compress/zlib's API and, like it, expects the
// two-byte zlib header this chunk body never carries. See DESIGN.md.
func (s *CompressedStream) decompressChunk(body []byte) ([]byte, error) {
	var out bytes.Buffer
	switch s.kind {
	case CompressionZlib:
		r := flate.NewReader(bytes.NewReader(body))
		if _, err := io.Copy(&out, r); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := r.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
	case CompressionSnappy:
		r := s2.NewReader(bytes.NewReader(body), s2.ReaderIgnoreStreamIdentifier())
		if _, err := io.Copy(&out, r); err != nil {
			return nil, errors.WithStack(err)
		}
	case CompressionZstd:
		dec, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer dec.Close()
		if _, err := io.Copy(&out, dec); err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Errorf("stripeio: unsupported compression kind %d", s.kind)
	}
	return out.Bytes(), nil
}

func (s *CompressedStream) Skip(n int) error {
	for n > 0 {
		chunk, err := s.Next()
		if err != nil {
			return err
		}
		if len(chunk) > n {
			s.pending = chunk[n:]
			return nil
		}
		n -= len(chunk)
	}
	return nil
}

func (s *CompressedStream) Seek(pos *PositionProvider) error {
	chunkOffset, err := pos.Next()
	if err != nil {
		return err
	}
	withinChunk, err := pos.Next()
	if err != nil {
		return err
	}
	if _, err := s.raw.Seek(int64(chunkOffset), io.SeekStart); err != nil {
		return errors.WithStack(err)
	}
	s.pending = nil
	if withinChunk > 0 {
		return s.Skip(int(withinChunk))
	}
	return nil
}

var _ SeekableByteStream = (*CompressedStream)(nil)
