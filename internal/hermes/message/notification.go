package message

// NewNotification builds a Notification message. All three attributes are
// mandatory per the original constructor's required positional arguments.
func NewNotification(code NotificationCode, severity SeverityType, description string) *Message {
	m := newMessage(TagNotification)
	m.set("NotificationCode", intPtr(int(code)))
	m.set("Severity", intPtr(int(severity)))
	m.set("Description", strPtr(description))
	return m
}
