package chatstream

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// doneSentinel is the data payload that ends a completion stream.
const doneSentinel = "[DONE]"

// event is one dispatched server-sent event.
type event struct {
	ID    string
	Name  string
	Data  string
	Retry int // milliseconds, 0 when absent

	hasID bool
}

// sseDecoder splits an event stream into events. It follows the
// text/event-stream framing: fields are "name: value" lines, multiple data
// lines are joined with "\n", a blank line dispatches, lines starting with
// ":" are comments.
type sseDecoder struct {
	r *bufio.Reader
}

func newSSEDecoder(r io.Reader) *sseDecoder {
	return &sseDecoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next event. Events with only id or retry fields are
// returned with an empty Data so the caller can track them. At the end of
// the stream a pending event is flushed before io.EOF is returned; a read
// error drops the pending event.
func (d *sseDecoder) Next() (event, error) {
	var (
		ev       event
		data     [][]byte
		hasField bool
	)
	for {
		line, err := d.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return event{}, err
		}
		if err == io.EOF && len(line) == 0 {
			if hasField {
				ev.Data = string(bytes.Join(data, []byte("\n")))
				return ev, nil
			}
			return event{}, io.EOF
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			if !hasField {
				continue
			}
			ev.Data = string(bytes.Join(data, []byte("\n")))
			return ev, nil
		}

		if line[0] == ':' {
			continue
		}

		name, value := splitField(line)
		switch string(name) {
		case "data":
			data = append(data, append([]byte(nil), value...))
			hasField = true
		case "id":
			// Per the framing rules an id containing NUL is ignored.
			if bytes.IndexByte(value, 0) < 0 {
				ev.ID = string(value)
				ev.hasID = true
				hasField = true
			}
		case "event":
			ev.Name = string(value)
			hasField = true
		case "retry":
			if ms, convErr := strconv.Atoi(string(value)); convErr == nil && ms >= 0 {
				ev.Retry = ms
				hasField = true
			}
		}

		if err == io.EOF {
			if !hasField {
				return event{}, io.EOF
			}
			ev.Data = string(bytes.Join(data, []byte("\n")))
			return ev, nil
		}
	}
}

// splitField splits "name: value" into its parts. A single space after
// the colon is dropped; a line without a colon is a field with no value.
func splitField(line []byte) ([]byte, []byte) {
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return line, nil
	}
	value := line[i+1:]
	if len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}
	return line[:i], value
}
