package message

// MachineReadyOptions extends BoardInfoOptions with MachineReady's own
// identifying attributes; every attribute is optional per the original
// constructor (FailedBoard defaults to Any rather than Unknown, which are
// numerically the same value).
type MachineReadyOptions struct {
	BoardInfoOptions
	ForecastId *string
	BoardId    *string
}

// NewMachineReady builds a MachineReady message.
func NewMachineReady(opts MachineReadyOptions) *Message {
	m := newMessage(TagMachineReady)
	opts.BoardInfoOptions.apply(m)
	m.set("ForecastId", opts.ForecastId)
	m.set("BoardId", opts.BoardId)
	return m
}

// NewRevokeMachineReady builds the empty RevokeMachineReady message.
func NewRevokeMachineReady() *Message {
	return newMessage(TagRevokeMachineReady)
}
