package message

// CheckAliveOptions holds CheckAlive's optional attributes; both may be
// omitted, matching the original's checkalive_type=None, checkalive_id=None.
type CheckAliveOptions struct {
	Type *CheckAliveType
	Id   *string
}

// NewCheckAlive builds a protocol-transparent keepalive message.
func NewCheckAlive(opts CheckAliveOptions) *Message {
	m := newMessage(TagCheckAlive)
	if opts.Type != nil {
		m.set("Type", intPtr(int(*opts.Type)))
	}
	m.set("Id", opts.Id)
	return m
}

// ServiceDescriptionOptions holds ServiceDescription's optional attributes.
type ServiceDescriptionOptions struct {
	InterfaceId        *string
	Version             string // defaults to "1.1" when empty
	SupportedFeatures   []string
}

// NewServiceDescription builds the handshake message both sides exchange
// first. MachineId and LaneId are mandatory.
func NewServiceDescription(machineId, laneId string, opts ServiceDescriptionOptions) *Message {
	m := newMessage(TagServiceDescription)
	version := opts.Version
	if version == "" {
		version = "1.1"
	}
	m.set("MachineId", strPtr(machineId))
	m.set("LaneId", strPtr(laneId))
	m.set("Version", strPtr(version))
	m.set("InterfaceId", opts.InterfaceId)
	m.Features = opts.SupportedFeatures
	return m
}
