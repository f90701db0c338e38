// Package stdio provides writers with the default buffering of the C
// standard output stream.
package stdio

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/stealthrocket/gltrace/internal/tty"
)

// BufferSize is the size of the buffer of block-buffered writers.
const BufferSize = 4096

// Writer buffers writes to an underlying writer. Line-buffered writers
// flush every time a line break is written; block-buffered writers flush
// when the buffer fills up or when Flush is called.
type Writer struct {
	buf  *bufio.Writer
	line bool
}

// NewWriter returns a Writer wrapping w.
func NewWriter(w io.Writer, lineBuffered bool) *Writer {
	return &Writer{buf: bufio.NewWriterSize(w, BufferSize), line: lineBuffered}
}

// NewFile returns a Writer wrapping f, line-buffered if f is a terminal and
// block-buffered otherwise.
func NewFile(f *os.File) *Writer {
	return NewWriter(f, tty.IsTerminal(int(f.Fd())))
}

// LineBuffered is true if the writer flushes on line breaks.
func (w *Writer) LineBuffered() bool { return w.line }

func (w *Writer) Write(b []byte) (int, error) {
	n, err := w.buf.Write(b)
	if err == nil && w.line && bytes.IndexByte(b, '\n') >= 0 {
		err = w.buf.Flush()
	}
	return n, err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}
