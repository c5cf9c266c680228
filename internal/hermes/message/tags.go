// Package message implements the IPC-Hermes-9852 XML message envelope: a
// fixed outer <Hermes Timestamp="..."> wrapping exactly one tagged child
// element carrying the payload attributes (spec §3, §4.A).
package message

// Tag is the closed set of IPC-Hermes-9852 protocol verbs.
type Tag string

const (
	TagUnknown               Tag = "Unknown"
	TagCheckAlive             Tag = "CheckAlive"
	TagServiceDescription     Tag = "ServiceDescription"
	TagNotification           Tag = "Notification"
	TagBoardAvailable         Tag = "BoardAvailable"
	TagRevokeBoardAvailable   Tag = "RevokeBoardAvailable"
	TagMachineReady           Tag = "MachineReady"
	TagRevokeMachineReady     Tag = "RevokeMachineReady"
	TagStartTransport         Tag = "StartTransport"
	TagStopTransport          Tag = "StopTransport"
	TagTransportFinished      Tag = "TransportFinished"
	TagBoardForecast          Tag = "BoardForecast"
	TagQueryBoardInfo         Tag = "QueryBoardInfo"
	TagSendBoardInfo          Tag = "SendBoardInfo"
	TagSetConfiguration       Tag = "SetConfiguration"
	TagGetConfiguration       Tag = "GetConfiguration"
	TagCurrentConfiguration   Tag = "CurrentConfiguration"
)

// NotificationCode enumerates the Notification tag's NotificationCode
// attribute, carried on the wire as its decimal string.
type NotificationCode int

const (
	NotificationProtocolError     NotificationCode = 1
	NotificationConnectionRefused NotificationCode = 2
	NotificationConnectionReset   NotificationCode = 3
	NotificationConfigurationError NotificationCode = 4
	NotificationMachineShutdown   NotificationCode = 5
	NotificationBoardForecastError NotificationCode = 6
)

// IsValid reports whether c is a member of the NotificationCode enum.
func (c NotificationCode) IsValid() bool {
	return c >= NotificationProtocolError && c <= NotificationBoardForecastError
}

// SeverityType enumerates Notification's Severity attribute.
type SeverityType int

const (
	SeverityFatal       SeverityType = 1
	SeverityError       SeverityType = 2
	SeverityWarning     SeverityType = 3
	SeverityInformation SeverityType = 4
)

// IsValid reports whether s is a member of the SeverityType enum.
func (s SeverityType) IsValid() bool {
	return s >= SeverityFatal && s <= SeverityInformation
}

// CheckAliveType enumerates CheckAlive's Type attribute.
type CheckAliveType int

const (
	CheckAlivePing CheckAliveType = 1
	CheckAlivePong CheckAliveType = 2
)

// BoardQuality enumerates the FailedBoard attribute.
type BoardQuality int

const (
	BoardQualityUnknown BoardQuality = 0
	BoardQualityAny     BoardQuality = 0
	BoardQualityGood    BoardQuality = 1
	BoardQualityBad     BoardQuality = 2
)

// IsValid reports whether q is a member of the BoardQuality enum.
func (q BoardQuality) IsValid() bool {
	return q >= BoardQualityUnknown && q <= BoardQualityBad
}

// FlippedBoard enumerates the FlippedBoard attribute.
type FlippedBoard int

const (
	FlippedBoardSideUpUnknown FlippedBoard = 0
	FlippedBoardTopSideUp     FlippedBoard = 1
	FlippedBoardBottomSideUp  FlippedBoard = 2
)

// IsValid reports whether f is a member of the FlippedBoard enum.
func (f FlippedBoard) IsValid() bool {
	return f >= FlippedBoardSideUpUnknown && f <= FlippedBoardBottomSideUp
}

// TransferState enumerates StopTransport/TransportFinished's TransferState
// attribute.
type TransferState int

const (
	TransferStateNotStarted TransferState = 1
	TransferStateIncomplete TransferState = 2
	TransferStateComplete   TransferState = 3
)

// MaxMessageSize is the largest Hermes document a conformant peer is
// required to accept (spec §4.A, §6).
const MaxMessageSize = 65536
