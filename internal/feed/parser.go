package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"graspctl/internal/grasp"
	"graspctl/internal/phase"
)

// defaultBufferSize bounds a single stream line.
const defaultBufferSize = 1024 * 1024

// Parser parses the robot stream.
//
// The channel returned by Parse is closed at EOF, when the reader is closed,
// or on an unrecoverable read error; [Parser.Err] reports the latter. Blank
// and malformed lines are skipped so a partially written line never stops
// the panel.
type Parser struct {
	// BufferSize is the maximum size in bytes of one line.
	// Defaults to 1MB if not set or <= 0.
	BufferSize int

	err error
}

// NewParser creates a [Parser] with default settings.
func NewParser() *Parser {
	return &Parser{BufferSize: defaultBufferSize}
}

// Parse reads the stream in a goroutine and emits parsed events.
func (p *Parser) Parse(reader io.Reader) <-chan Event {
	events := make(chan Event)

	p.err = nil
	go func() {
		defer close(events)

		bufSize := p.BufferSize
		if bufSize <= 0 {
			bufSize = defaultBufferSize
		}
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 0, min(64*1024, bufSize)), bufSize)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var raw Line
			if err := json.Unmarshal(line, &raw); err != nil {
				continue
			}
			events <- NewEventFromLine(&raw)
		}
		if err := scanner.Err(); err != nil {
			p.err = fmt.Errorf("feed stopped: %w", err)
		}
	}()

	return events
}

// Err returns the read error that ended the last Parse, or nil if the stream
// reached EOF. It is only meaningful once the event channel is closed.
func (p *Parser) Err() error {
	return p.err
}

// ParseSingle parses one line. Unlike [Parser.Parse] it reports malformed
// input instead of skipping it.
func ParseSingle(line string) (Event, error) {
	var raw Line
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Event{}, err
	}
	return NewEventFromLine(&raw), nil
}

// Apply routes an event to the registry or coordinator. Either target may be
// nil, in which case events for it are ignored. Unknown event types and
// incomplete events are reported as errors and leave state unchanged.
func Apply(e Event, reg *grasp.Registry, coord *phase.Coordinator) error {
	switch {
	case e.IsGrasp():
		if reg == nil {
			return nil
		}
		return reg.AddOrUpdate(e.Name, e.Reachable)

	case e.IsClear():
		if reg != nil {
			reg.Clear()
		}
		return nil

	case e.IsPhase():
		if coord == nil {
			return nil
		}
		status, err := phase.ParseStatus(e.Status)
		if err != nil {
			return err
		}
		return coord.SetStatus(e.Name, status)

	default:
		return fmt.Errorf("unsupported feed event %q", e.Type)
	}
}
