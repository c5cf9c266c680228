package message

// NewStartTransport builds a StartTransport message. BoardId is mandatory;
// ConveyorSpeed is optional.
func NewStartTransport(boardId string, conveyorSpeed *float64) *Message {
	m := newMessage(TagStartTransport)
	m.set("BoardId", strPtr(boardId))
	m.set("ConveyorSpeed", floatPtrOf(conveyorSpeed))
	return m
}

// NewStopTransport builds a StopTransport message; both attributes are
// mandatory.
func NewStopTransport(state TransferState, boardId string) *Message {
	m := newMessage(TagStopTransport)
	m.set("TransferState", intPtr(int(state)))
	m.set("BoardId", strPtr(boardId))
	return m
}

// NewTransportFinished builds a TransportFinished message; both attributes
// are mandatory.
func NewTransportFinished(state TransferState, boardId string) *Message {
	m := newMessage(TagTransportFinished)
	m.set("TransferState", intPtr(int(state)))
	m.set("BoardId", strPtr(boardId))
	return m
}
