// Package compression wraps dump streams in gzip or zstd.
package compression

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type Algorithm string

const (
	None Algorithm = "none"
	Gzip Algorithm = "gzip"
	Zstd Algorithm = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ParseAlgorithm accepts "none", "gzip" or "zstd" in any case; "" is None.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "", None:
		return None, nil
	case Gzip, Zstd:
		return a, nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

// Detect guesses the algorithm from the first bytes of a stream.
func Detect(header []byte) Algorithm {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	default:
		return None
	}
}

// countingWriter tallies what reaches the underlying writer, so Compress
// reports the compressed size rather than the input size.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Compress copies r to w through alg and returns the bytes written to w.
func Compress(alg Algorithm, r io.Reader, w io.Writer) (int64, error) {
	counter := &countingWriter{w: w}

	var enc io.WriteCloser
	switch alg {
	case "", None:
		_, err := io.Copy(counter, r)
		return counter.n, err
	case Gzip:
		enc = gzip.NewWriter(counter)
	case Zstd:
		zw, err := zstd.NewWriter(counter)
		if err != nil {
			return 0, err
		}
		enc = zw
	default:
		return 0, fmt.Errorf("unknown compression %q", alg)
	}

	if _, err := io.Copy(enc, r); err != nil {
		enc.Close()
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}
	return counter.n, nil
}

// Decompress copies the decoded form of r to w.
func Decompress(alg Algorithm, r io.Reader, w io.Writer) (int64, error) {
	dr, err := newReader(alg, r)
	if err != nil {
		return 0, err
	}
	defer dr.Close()
	return io.Copy(w, dr)
}

// NewReader sniffs the stream header and returns a reader yielding the
// decompressed bytes. Uncompressed input passes through unchanged.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	return newReader(Detect(header), br)
}

func newReader(alg Algorithm, r io.Reader) (io.ReadCloser, error) {
	switch alg {
	case "", None:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", alg)
	}
}
