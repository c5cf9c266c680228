// Package frame implements the Hermes wire framing: a concatenation of
// complete XML documents with no length prefix, split on the literal
// terminator "</Hermes>" (spec §4.C).
package frame

import (
	"bytes"
	"strconv"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
)

var terminator = []byte("</Hermes>")

// Decoder accumulates bytes fed to it one Read() at a time and yields
// complete Messages as terminators are found. It is not safe for
// concurrent use; callers (the endpoint's listener goroutine) own it
// exclusively.
type Decoder struct {
	buf bytes.Buffer
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends freshly-read bytes and returns every complete message now
// available, in wire order. A buffer that exceeds message.MaxMessageSize
// without ever yielding a terminator is a framing error.
func (d *Decoder) Feed(chunk []byte) ([]*message.Message, error) {
	d.buf.Write(chunk)

	var out []*message.Message
	for {
		data := d.buf.Bytes()
		idx := bytes.Index(data, terminator)
		if idx < 0 {
			if size := d.buf.Len(); size > message.MaxMessageSize {
				d.buf.Reset()
				return out, hermeserrors.NewConnectionLost("frame.Feed", errOversizeFraming(size))
			}
			return out, nil
		}

		end := idx + len(terminator)
		raw := make([]byte, end)
		copy(raw, data[:end])

		msg, err := message.Parse(raw)
		if err != nil {
			d.buf.Next(end)
			return out, err
		}
		out = append(out, msg)
		d.buf.Next(end)
	}
}

func errOversizeFraming(size int) error {
	return &framingError{size: size}
}

type framingError struct{ size int }

func (e *framingError) Error() string {
	return "framing error: " + strconv.Itoa(e.size) + " bytes buffered without a terminator"
}
