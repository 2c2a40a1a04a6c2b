package document

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
)

// ChunkSize bounds the size of each chunk delivered by a Stream.
const ChunkSize = 16 * 1024

// Stream carries the serialised document. It delivers any number of data
// chunks followed by exactly one terminal signal: io.EOF when the document
// was written completely, or the write error.
type Stream struct {
	r        *io.PipeReader
	done     chan struct{}
	err      error
	consumed atomic.Bool
}

// End finalises the document and starts serialising it. Later drawing
// calls fail with ErrEnded. Calling End again returns the same Stream.
func (d *Document) End() *Stream {
	if d.stream != nil {
		return d.stream
	}
	pr, pw := io.Pipe()
	s := &Stream{r: pr, done: make(chan struct{})}
	d.stream = s

	buildErr := d.err
	pdf := d.pdf
	go func() {
		defer close(s.done)
		var err error
		if buildErr != nil {
			err = fmt.Errorf("document not renderable: %w", buildErr)
		} else {
			_, err = pdf.WriteTo(&chunkWriter{w: pw})
		}
		s.err = err
		pw.CloseWithError(err)
	}()
	return s
}

func (s *Stream) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Close abandons the stream. The writer side stops at its next write.
func (s *Stream) Close() error {
	return s.r.Close()
}

// Err waits for the writer to finish and returns its error, nil on a
// complete write.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// Each calls onData for every chunk until the stream ends. It returns nil
// after the end signal, or the first error from the stream, from onData or
// from ctx. The chunk passed to onData is only valid during the call.
// A stream is drained once; later calls return ErrStreamConsumed.
func (s *Stream) Each(ctx context.Context, onData func(chunk []byte) error) error {
	if !s.consumed.CompareAndSwap(false, true) {
		return ErrStreamConsumed
	}
	stop := context.AfterFunc(ctx, func() {
		s.r.CloseWithError(ctx.Err())
	})
	defer stop()

	buf := make([]byte, ChunkSize)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			if cbErr := onData(buf[:n]); cbErr != nil {
				s.r.CloseWithError(cbErr)
				return cbErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}
}

// chunkWriter splits large writes so no single chunk exceeds ChunkSize.
type chunkWriter struct {
	w io.Writer
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := min(len(p), ChunkSize)
		m, err := c.w.Write(p[:n])
		written += m
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}
