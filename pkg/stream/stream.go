package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrCanceled is returned by Wait when the consumer's context ended before
// the stream completed. It wraps the context's error.
var ErrCanceled = errors.New("stream canceled")

const readSize = 4096

// Stream is a stream being consumed by a single read loop.
type Stream struct {
	events chan Event
	done   chan struct{}
	err    error
	once   sync.Once
}

// Consume starts reading r and decoding events. If r implements io.Closer
// it is closed when the stream ends, or as soon as ctx ends so that a
// blocked read returns.
//
// Events must be drained for the read loop to make progress.
func Consume(ctx context.Context, r io.Reader) *Stream {
	s := &Stream{
		events: make(chan Event),
		done:   make(chan struct{}),
	}

	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		go func() {
			<-s.done
			stop()
			c.Close()
		}()
	}

	go s.run(ctx, r)
	return s
}

// Events returns the channel of decoded events. It is closed when the
// stream ends for any reason.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Done is closed once the stream has ended.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the stream ends. It returns nil when the terminal
// marker or end of input was reached, ErrCanceled when the context ended
// first, and the read error otherwise.
func (s *Stream) Wait() error {
	<-s.done
	return s.err
}

func (s *Stream) finish(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.events)
		close(s.done)
	})
}

func (s *Stream) run(ctx context.Context, r io.Reader) {
	dec := NewDecoder()
	buf := make([]byte, readSize)

	for {
		if err := ctx.Err(); err != nil {
			s.finish(canceled(err))
			return
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			events, done := dec.Feed(buf[:n])
			if !s.deliver(ctx, events) {
				return
			}
			if done {
				s.finish(nil)
				return
			}
		}

		if readErr == nil {
			continue
		}
		if ctx.Err() != nil {
			s.finish(canceled(ctx.Err()))
			return
		}
		if errors.Is(readErr, io.EOF) {
			events, _ := dec.Flush()
			if !s.deliver(ctx, events) {
				return
			}
			s.finish(nil)
			return
		}
		s.finish(fmt.Errorf("read stream: %w", readErr))
		return
	}
}

// deliver sends events in order. It reports false if the context ended, in
// which case the stream has been finished as canceled.
func (s *Stream) deliver(ctx context.Context, events []Event) bool {
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			s.finish(canceled(err))
			return false
		}
		select {
		case s.events <- ev:
		case <-ctx.Done():
			s.finish(canceled(ctx.Err()))
			return false
		}
	}
	return true
}

func canceled(err error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}

// Handler receives the events and the single terminal outcome of a stream.
type Handler struct {
	// OnEvent is called for each event in order.
	OnEvent func(Event)

	// OnComplete is called once when the stream finished gracefully.
	OnComplete func()

	// OnError is called once when the stream failed.
	OnError func(error)
}

// Run consumes r, dispatching to h. Exactly one of OnComplete and OnError
// is called, unless ctx ends first, in which case neither is and OnEvent is
// not called again. Run returns
// the same value Wait would.
func Run(ctx context.Context, r io.Reader, h Handler) error {
	s := Consume(ctx, r)
	for ev := range s.Events() {
		if h.OnEvent != nil && ctx.Err() == nil {
			h.OnEvent(ev)
		}
	}

	err := s.Wait()
	switch {
	case err == nil:
		if h.OnComplete != nil {
			h.OnComplete()
		}
	case errors.Is(err, ErrCanceled):
	default:
		if h.OnError != nil {
			h.OnError(err)
		}
	}
	return err
}
