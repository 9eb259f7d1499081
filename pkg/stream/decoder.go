package stream

import (
	"bytes"
	"encoding/json"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// EventKind distinguishes decoded events.
type EventKind int

const (
	// EventContent carries a decoded content payload.
	EventContent EventKind = iota

	// EventRaw carries a payload that was not a content object.
	EventRaw
)

func (k EventKind) String() string {
	switch k {
	case EventContent:
		return "content"
	case EventRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Event is one live record of the stream.
type Event struct {
	Kind    EventKind
	Content string
	Raw     string

	// Fallback is set when the server substituted a fallback reply after
	// an upstream failure.
	Fallback bool
}

// Text returns the displayable text of the event.
func (e Event) Text() string {
	if e.Kind == EventContent {
		return e.Content
	}
	return e.Raw
}

type payload struct {
	Content  *string `json:"content"`
	Fallback bool    `json:"fallback"`
}

// Decoder turns bytes into events. It is not safe for concurrent use.
type Decoder struct {
	buf  []byte
	done bool
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Done reports whether the terminal marker has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Feed appends p to the pending input and returns the events of every
// complete record. done is true once the terminal marker has been decoded;
// input after it is discarded.
func (d *Decoder) Feed(p []byte) (events []Event, done bool) {
	if d.done {
		return nil, true
	}
	d.buf = append(d.buf, p...)

	for !d.done {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]
		if ev, ok := d.parse(line); ok {
			events = append(events, ev)
		}
	}

	if d.done || len(d.buf) == 0 {
		d.buf = nil
	}
	return events, d.done
}

// Flush decodes a final record that was not newline-terminated.
func (d *Decoder) Flush() (events []Event, done bool) {
	if d.done || len(d.buf) == 0 {
		return nil, d.done
	}
	line := d.buf
	d.buf = nil
	if ev, ok := d.parse(line); ok {
		events = append(events, ev)
	}
	return events, d.done
}

func (d *Decoder) parse(line []byte) (Event, bool) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return Event{}, false
	}
	data := line[len(dataPrefix):]

	if string(bytes.TrimSpace(data)) == doneMarker {
		d.done = true
		return Event{}, false
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil || p.Content == nil {
		return Event{Kind: EventRaw, Raw: string(data)}, true
	}
	return Event{Kind: EventContent, Content: *p.Content, Fallback: p.Fallback}, true
}
