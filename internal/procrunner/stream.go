package procrunner

import (
	"bufio"
	"context"
	"io"
	"sync"

	"pkt.systems/pslog"

	"pkt.systems/termdeck/schema"
)

// lineStream merges stdout and stderr into one channel of tagged lines.
// Per-stream order is arrival order; interleaving across streams follows
// scheduling.
type lineStream struct {
	lines     chan schema.OutputLine
	closed    chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
	wg        sync.WaitGroup
	log       pslog.Logger
}

func newLineStream(ctx context.Context, stdout io.Reader, stderr io.Reader) *lineStream {
	stream := &lineStream{
		lines:  make(chan schema.OutputLine, 256),
		closed: make(chan struct{}),
		log:    pslog.Ctx(ctx),
	}
	stream.wg.Add(2)
	go stream.read(stdout, schema.StreamStdout)
	go stream.read(stderr, schema.StreamStderr)
	go func() {
		stream.wg.Wait()
		close(stream.lines)
	}()
	return stream
}

func (s *lineStream) read(reader io.Reader, kind schema.StreamKind) {
	defer s.wg.Done()
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		select {
		case s.lines <- schema.OutputLine{Stream: kind, Text: scanner.Text()}:
		case <-s.closed:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		if s.log != nil {
			s.log.Warn("process output read failed", "stream", kind, "err", err)
		}
		s.setErr(err)
	}
}

// waitReaders blocks until both pipes are drained. The process must not
// be reaped before this returns.
func (s *lineStream) waitReaders() {
	s.wg.Wait()
}

func (s *lineStream) setErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *lineStream) Next(ctx context.Context) (schema.OutputLine, error) {
	select {
	case <-ctx.Done():
		return schema.OutputLine{}, ctx.Err()
	case line, ok := <-s.lines:
		if ok {
			return line, nil
		}
		s.errMu.Lock()
		err := s.err
		s.errMu.Unlock()
		if err != nil {
			return schema.OutputLine{}, err
		}
		return schema.OutputLine{}, io.EOF
	}
}

// Close unblocks the reader goroutines so the process can be reaped even
// when the consumer stopped with lines still buffered.
func (s *lineStream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}
