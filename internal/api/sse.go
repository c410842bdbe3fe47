package api

import (
	"bufio"
	"io"
	"strings"
)

// StreamEvent is one block from the server's text/event-stream
// endpoint: an optional event name plus a data payload.
type StreamEvent struct {
	Name string
	Data string
}

// EventScanner splits an event stream into blocks. Blocks are
// delimited by blank lines; `data:` lines carry the payload (multiple
// data lines join with newlines), `event:` names the block. Comment
// lines (leading ":") and unknown fields are skipped, which is how the
// server's heartbeat lines are absorbed.
type EventScanner struct {
	reader  *bufio.Reader
	current StreamEvent
	err     error
}

func NewEventScanner(r io.Reader) *EventScanner {
	return &EventScanner{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next advances to the next block carrying data. Returns false at end
// of stream or on read error; Err distinguishes the two.
func (s *EventScanner) Next() bool {
	s.current = StreamEvent{}

	var dataLines []string
	var name string
	hasData := false

	for {
		line, err := s.reader.ReadString('\n')

		if err != nil && line == "" {
			if err == io.EOF {
				// A final block without a trailing blank line still counts.
				if hasData {
					s.current = StreamEvent{Name: name, Data: strings.Join(dataLines, "\n")}
					s.err = io.EOF
					return true
				}
				return false
			}
			s.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData {
				s.current = StreamEvent{Name: name, Data: strings.Join(dataLines, "\n")}
				return true
			}
			// Empty block (e.g. consecutive heartbeats); reset and keep reading.
			name = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			field, value = line, ""
		} else {
			// One leading space after the colon is part of the framing.
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "event":
			name = value
		default:
			// id, retry, anything else: not needed here.
		}
	}
}

// Event returns the block parsed by the last successful Next.
func (s *EventScanner) Event() StreamEvent { return s.current }

// Err returns the read error that ended scanning, or nil after a clean
// end of stream.
func (s *EventScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
