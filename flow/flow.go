// Package flow renders a streamed model response as it arrives.
//
// Chunks of text are collected in a LineBuffer. Every time a line is
// complete it goes through the pipeline
//
//	highlight -> wrap -> paced write
//
// and the newline is put back afterwards. When the stream ends the partial
// last line, if any, is flushed the same way. The raw text of all chunks is
// returned as the full response.
//
// Example usage:
//
//	hl := highlight.New(theme)
//	full, err := flow.Render(ctx, stream, os.Stdout, flow.Config{
//		Highlighter: hl,
//		Width:       wrap.Resolve(100, wrap.TerminalWidth(os.Stdout)),
//		Delay:       snail.DefaultDelay,
//	})
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/heycli/hey/snail"
	"github.com/heycli/hey/wrap"
)

// State is where a Renderer is in its lifecycle.
type State int

const (
	// Streaming: chunks are still arriving.
	Streaming State = iota
	// Draining: the stream ended, the remainder is being flushed.
	Draining
	// Done: nothing more will be written.
	Done
)

func (s State) String() string {
	switch s {
	case Streaming:
		return "streaming"
	case Draining:
		return "draining"
	default:
		return "done"
	}
}

// Stream is a pull-based sequence of response chunks. Next blocks until a
// chunk is available and returns false at the end or on error; Err then
// tells the two apart.
type Stream interface {
	Next() bool
	Current() string
	Err() error
}

// Highlighter styles one line. Implementations may keep state between
// lines and always return something printable.
type Highlighter interface {
	Highlight(line string) string
}

// Config configures a Renderer.
type Config struct {
	// Highlighter styles each line. Nil prints lines as they are.
	Highlighter Highlighter
	// Width is the wrap width; zero disables wrapping.
	Width int
	// Delay is the pause before each grapheme; zero disables pacing.
	Delay time.Duration
	// Sleep replaces time.Sleep for pacing.
	Sleep func(time.Duration)
}

// Validate checks config parameters for safety
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("invalid width %d (must be >= 0)", c.Width)
	}
	if c.Delay < 0 {
		return fmt.Errorf("invalid delay %s (must be >= 0)", c.Delay)
	}
	return nil
}

// StreamError reports a failed stream. Partial holds the text received
// before the failure; whatever of it made up complete lines has already
// been written.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream failed after %d bytes: %v", len(e.Partial), e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// Renderer turns a Stream into paced, styled terminal output. It is
// single-use and not safe for concurrent use.
type Renderer struct {
	config Config
	out    *snail.Writer
	buf    *LineBuffer
	full   strings.Builder
	state  State
	lines  int
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(config Config, w io.Writer) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if w == nil {
		return nil, errors.New("writer cannot be nil")
	}

	var opts []snail.Option
	if config.Sleep != nil {
		opts = append(opts, snail.WithSleep(config.Sleep))
	}
	return &Renderer{
		config: config,
		out:    snail.NewWriter(w, config.Delay, opts...),
		buf:    NewLineBuffer(),
		state:  Streaming,
	}, nil
}

// State returns the current state.
func (r *Renderer) State() State {
	return r.state
}

// Lines returns the number of lines rendered so far.
func (r *Renderer) Lines() int {
	return r.lines
}

// Render consumes s until it ends and returns the full response text.
//
// A stream error stops rendering at once and is returned as a
// *StreamError; nothing buffered is flushed. A write error is returned as
// is. A cancelled ctx is reported as a stream error.
func (r *Renderer) Render(ctx context.Context, s Stream) (string, error) {
	if r.state != Streaming {
		return "", errors.New("renderer already used")
	}

	for {
		if err := ctx.Err(); err != nil {
			r.state = Done
			return r.full.String(), &StreamError{Partial: r.full.String(), Err: err}
		}
		if !s.Next() {
			break
		}

		chunk := s.Current()
		if chunk == "" {
			continue
		}
		r.full.WriteString(chunk)
		r.buf.Append(chunk)

		for {
			line, ok := r.buf.PopLine()
			if !ok {
				break
			}
			if err := r.renderLine(line); err != nil {
				r.state = Done
				return r.full.String(), err
			}
		}
	}

	if err := s.Err(); err != nil {
		r.state = Done
		log.Debug("Stream failed", "err", err, "bytes", r.full.Len())
		return r.full.String(), &StreamError{Partial: r.full.String(), Err: err}
	}

	r.state = Draining
	if rest, ok := r.buf.TakeRemainder(); ok {
		if err := r.renderLine(rest); err != nil {
			r.state = Done
			return r.full.String(), err
		}
	}

	r.state = Done
	log.Debug("Response rendered", "lines", r.lines, "bytes", r.full.Len(), "written", r.out.Written())
	return r.full.String(), nil
}

// renderLine runs one line, with or without its terminator, through the
// pipeline.
func (r *Renderer) renderLine(line string) error {
	body, term := splitTerminator(line)

	if r.config.Highlighter != nil {
		body = r.config.Highlighter.Highlight(body)
	}
	body = wrap.String(body, r.config.Width)

	r.lines++
	return r.out.Emit(body + term)
}

func splitTerminator(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}

// Render is the main entry point: it renders stream s onto w and returns
// the full response text.
func Render(ctx context.Context, s Stream, w io.Writer, config Config) (string, error) {
	switch {
	case ctx == nil:
		return "", errors.New("context cannot be nil")
	case s == nil:
		return "", errors.New("stream cannot be nil")
	}

	r, err := NewRenderer(config, w)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(ctx, s)
}

// RenderString renders already complete text, for replaying stored
// messages.
func RenderString(ctx context.Context, text string, w io.Writer, config Config) error {
	_, err := Render(ctx, Chunks(text), w, config)
	return err
}

// chunkStream is a Stream over fixed chunks.
type chunkStream struct {
	chunks []string
	pos    int
	err    error
}

// Chunks returns a Stream yielding the given chunks in order.
func Chunks(chunks ...string) Stream {
	return &chunkStream{chunks: chunks, pos: -1}
}

// FailingChunks returns a Stream yielding chunks and then failing with err.
func FailingChunks(err error, chunks ...string) Stream {
	return &chunkStream{chunks: chunks, pos: -1, err: err}
}

func (c *chunkStream) Next() bool {
	if c.pos+1 >= len(c.chunks) {
		c.pos = len(c.chunks)
		return false
	}
	c.pos++
	return true
}

func (c *chunkStream) Current() string {
	if c.pos < 0 || c.pos >= len(c.chunks) {
		return ""
	}
	return c.chunks[c.pos]
}

func (c *chunkStream) Err() error {
	if c.pos >= len(c.chunks) {
		return c.err
	}
	return nil
}
