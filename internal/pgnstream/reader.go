package pgnstream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
)

// LineReader wraps a zstd-compressed file, yielding UTF-8 lines (invalid
// bytes replaced) together with the compressed-byte offset consumed so
// far. Failures from opening the file or from decompression are fatal, per
// §4.1.
type LineReader struct {
	file    *os.File
	counter *countingReader
	decoder *zstd.Decoder
	scanner *bufio.Scanner
}

// countingReader tracks how many compressed bytes have been read off the
// underlying file so progress can be reported against it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// OpenLineReader opens path and prepares a streaming zstd decompressor over
// it.
func OpenLineReader(path string) (*LineReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	counter := &countingReader{r: f}
	dec, err := zstd.NewReader(counter)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("initializing zstd decoder for %s: %w", path, err)
	}

	scanner := bufio.NewScanner(dec.IOReadCloser())
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return &LineReader{file: f, counter: counter, decoder: dec, scanner: scanner}, nil
}

// CompressedBytesRead reports how many compressed bytes have been consumed
// from the underlying file so far.
func (r *LineReader) CompressedBytesRead() int64 {
	return r.counter.n
}

// CompressedSize reports the total size of the underlying compressed file.
func (r *LineReader) CompressedSize() (int64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}
	return info.Size(), nil
}

// Next returns the next UTF-8 line (without its trailing newline), with
// invalid byte sequences replaced, or io.EOF when the stream is exhausted.
func (r *LineReader) Next() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("decompressing: %w", err)
		}
		return "", io.EOF
	}
	line := r.scanner.Text()
	if !utf8.ValidString(line) {
		line = toValidUTF8(line)
	}
	return line, nil
}

func toValidUTF8(s string) string {
	const replacement = "�"
	var b []byte
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b = append(b, replacement...)
			i++
			continue
		}
		b = append(b, s[i:i+size]...)
		i += size
	}
	return string(b)
}

// Close releases the decompressor and underlying file handle.
func (r *LineReader) Close() error {
	r.decoder.Close()
	return r.file.Close()
}
