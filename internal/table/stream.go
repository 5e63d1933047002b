package table

// stream.go wraps raw file readers before CSV parsing:
//
//   - bomSkipper drops a leading UTF-8 byte order mark
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - countingReader tracks bytes consumed for progress logs
//
// All three work on the stream, so memory stays constant regardless of file
// size.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkipper removes a UTF-8 BOM from the start of the stream.
type bomSkipper struct {
	r       *bufio.Reader
	checked bool
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{r: bufio.NewReaderSize(r, 64*1024)}
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = b.r.Discard(len(utf8BOM))
		}
	}
	return b.r.Read(p)
}

// utf8Sanitizer replaces each byte that does not start a valid UTF-8 sequence
// with '?'. Multi-byte sequences split across reads are carried over.
type utf8Sanitizer struct {
	r       io.Reader
	buf     []byte
	pending []byte
	out     []byte
	outBuf  []byte
	err     error
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, buf: make([]byte, 32*1024)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 {
		if s.err != nil {
			if len(s.pending) == 0 {
				return 0, s.err
			}
			s.out = s.sanitize(true)
			continue
		}
		n, err := s.r.Read(s.buf)
		s.pending = append(s.pending, s.buf[:n]...)
		s.err = err
		s.out = s.sanitize(err != nil)
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// sanitize converts complete runes of pending into output. An incomplete
// sequence at the end stays pending unless final is set.
func (s *utf8Sanitizer) sanitize(final bool) []byte {
	out := s.outBuf[:0]
	i := 0
	for i < len(s.pending) {
		c := s.pending[i]
		if c < utf8.RuneSelf {
			out = append(out, c)
			i++
			continue
		}
		if !final && !utf8.FullRune(s.pending[i:]) {
			break
		}
		r, size := utf8.DecodeRune(s.pending[i:])
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
			i++
			continue
		}
		out = append(out, s.pending[i:i+size]...)
		i += size
	}
	s.pending = append(s.pending[:0], s.pending[i:]...)
	s.outBuf = out
	return out
}

// countingReader counts bytes read.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// newSourceReader applies the BOM skipper, then the sanitizer, then counting.
func newSourceReader(r io.Reader) *countingReader {
	return &countingReader{r: newUTF8Sanitizer(newBOMSkipper(r))}
}
