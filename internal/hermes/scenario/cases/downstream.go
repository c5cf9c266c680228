// Package cases registers the concrete conformance scenarios that exercise
// the message, state machine, framing, endpoint, and validator packages
// (spec §4.G, §8). Names mirror the original test function names so a
// scenario tag and docstring survive recognizably.
//
// The "downstream" family plays the upstream (client) role against a peer
// that plays downstream, i.e. this harness connects out to test how the
// system under test behaves as the board-receiving side (spec §8 scenarios
// 1-6, grounded on original_source's test_downstream_ifc.py and
// test_downstream_ifc_states.py).
package cases

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hermes-org/acceptance-tests/internal/hermes/endpoint"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/hermes-org/acceptance-tests/internal/hermes/scenario"
	"github.com/hermes-org/acceptance-tests/internal/hermes/validator"
)

const moduleDownstream = "cases.downstream"

func registerDownstream(reg *scenario.Registry) error {
	entries := []struct {
		name        string
		description string
		fn          scenario.Func
	}{
		{"test_connect_handshake_disconnect", `
			Connect, send ServiceDescription, wait for the peer's answer, then
			disconnect. Validates Version format and LaneId numeric > 0.`,
			testConnectHandshakeDisconnect},
		{"test_maximum_message_size", `
			Send a ServiceDescription padded with an unknown attribute out to
			exactly MaxMessageSize bytes; the peer must still answer with its
			own ServiceDescription.`,
			testMaximumMessageSize},
		{"test_multiple_messages_per_packet", `
			Send CheckAlive, ServiceDescription, CheckAlive concatenated into
			one write; neither CheckAlive should be answered and the peer must
			still answer the ServiceDescription.`,
			testMultipleMessagesPerPacket},
		{"test_connect_2_times", `
			Open a first upstream connection, then a second; the second must
			receive a ConnectionRefused Notification and be closed while the
			first connection keeps working.`,
			testConnect2Times},
		{"test_terminate_on_wrong_message_in_not_available_not_ready", `
			After handshake, send each of ServiceDescription, RevokeMachineReady,
			StartTransport, StopTransport; each must provoke a ProtocolError
			Notification and the peer must then close the connection.`,
			testTerminateOnWrongMessageInNotAvailableNotReady},
		{"test_complete_board_transfer", `
			After handshake, drive a full board hand-over: MachineReady ->
			BoardAvailable -> StartTransport -> TransportFinished ->
			StopTransport, asserting the BoardId stays consistent throughout.`,
			testCompleteBoardTransfer},
	}
	for _, e := range entries {
		if err := reg.Register(e.name, moduleDownstream, e.description, e.fn); err != nil {
			return err
		}
	}
	return nil
}

func testConnectHandshakeDisconnect(env *scenario.Environment) error {
	const from = "test_connect_handshake_disconnect"
	return scenario.WithUpstream(env, func(conn *endpoint.UpstreamConnection) error {
		if _, err := conn.SendMsg(env.ServiceDescriptionMessage()); err != nil {
			return err
		}
		if err := env.RunWaitForMsg(message.TagServiceDescription, from); err != nil {
			return err
		}
		msg, err := conn.ExpectMessage(message.TagServiceDescription, 0)
		if err != nil {
			return err
		}
		version, warnings, err := validator.ServiceDescription(msg, env.LaneId)
		if err != nil {
			return err
		}
		emitWarnings(env, from, warnings)
		return env.RunCallback(scenario.CbEvent{Kind: scenario.CbHermesVersion, Version: version}, from)
	})
}

// buildMaxSizeServiceDescription serializes a ServiceDescription, splices
// in an unknown attribute right before LaneId=, and pads it with 'x'
// characters (inside that attribute's value) until the document is exactly
// MaxMessageSize bytes (original_source's test_maximum_message_size).
func buildMaxSizeServiceDescription(laneId string) ([]byte, message.Tag, error) {
	msg := message.NewServiceDescription("DownstreamId", laneId, message.ServiceDescriptionOptions{})
	raw, err := msg.ToBytes()
	if err != nil {
		return nil, msg.Tag, err
	}
	splitAt := indexOf(raw, []byte("LaneId="))
	if splitAt < 0 {
		return nil, msg.Tag, fmt.Errorf("test_maximum_message_size: LaneId attribute not found in ServiceDescription")
	}
	dummyAttr := []byte(`HermesAcceptanceTestDummyAttributeId="" `)
	padded := append(append([]byte{}, raw[:splitAt]...), dummyAttr...)
	padded = append(padded, raw[splitAt:]...)
	insertAt := splitAt + len(dummyAttr) - 2
	extendBy := message.MaxMessageSize - len(padded)
	if extendBy < 0 {
		return nil, msg.Tag, fmt.Errorf("test_maximum_message_size: padded message already exceeds MaxMessageSize")
	}
	final := append(append([]byte{}, padded[:insertAt]...), make([]byte, extendBy)...)
	for i := 0; i < extendBy; i++ {
		final[insertAt+i] = 'x'
	}
	final = append(final, padded[insertAt:]...)
	return final, msg.Tag, nil
}

func testMaximumMessageSize(env *scenario.Environment) error {
	const from = "test_maximum_message_size"
	return scenario.WithUpstream(env, func(conn *endpoint.UpstreamConnection) error {
		final, tag, err := buildMaxSizeServiceDescription(env.LaneId)
		if err != nil {
			return err
		}
		if _, err := conn.SendTagAndBytes(tag, final); err != nil {
			return err
		}
		if err := env.RunWaitForMsg(message.TagServiceDescription, from); err != nil {
			return err
		}
		_, err = conn.ExpectMessage(message.TagServiceDescription, 0)
		return err
	})
}

func testMultipleMessagesPerPacket(env *scenario.Environment) error {
	const from = "test_multiple_messages_per_packet"
	return scenario.WithUpstream(env, func(conn *endpoint.UpstreamConnection) error {
		checkAlive := message.NewCheckAlive(message.CheckAliveOptions{})
		serviceDescription := message.NewServiceDescription("DownstreamId", env.LaneId, message.ServiceDescriptionOptions{})

		checkAliveBytes, err := checkAlive.ToBytes()
		if err != nil {
			return err
		}
		sdBytes, err := serviceDescription.ToBytes()
		if err != nil {
			return err
		}
		coalesced := append(append(append([]byte{}, checkAliveBytes...), sdBytes...), checkAliveBytes...)

		if _, err := conn.SendTagAndBytes(serviceDescription.Tag, coalesced); err != nil {
			return err
		}
		if err := env.RunWaitForMsg(message.TagServiceDescription, from); err != nil {
			return err
		}
		_, err = conn.ExpectMessage(message.TagServiceDescription, 0)
		return err
	})
}

func testConnect2Times(env *scenario.Environment) error {
	const from = "test_connect_2_times"
	conn1 := endpoint.NewUpstreamConnection()
	defer conn1.Close()
	if err := conn1.Connect(env.Host, env.Port); err != nil {
		return err
	}

	err := func() error {
		conn2 := endpoint.NewUpstreamConnection()
		defer conn2.Close()
		if err := conn2.Connect(env.Host, env.Port); err != nil {
			return err
		}
		msg, err := conn2.ExpectMessage(message.TagNotification, 0)
		if err != nil {
			return err
		}
		warnings, err := validator.Notification(msg, message.NotificationConnectionRefused, message.SeverityError)
		if err != nil {
			return err
		}
		emitWarnings(env, from, warnings)
		return nil
	}()
	if err != nil {
		return err
	}

	_, err = conn1.SendMsg(env.ServiceDescriptionMessage())
	return err
}

func testTerminateOnWrongMessageInNotAvailableNotReady(env *scenario.Environment) error {
	const from = "test_terminate_on_wrong_message_in_not_available_not_ready"
	illegal := []*message.Message{
		env.ServiceDescriptionMessage(),
		message.NewRevokeMachineReady(),
		message.NewStartTransport("some_guid", nil),
		message.NewStopTransport(message.TransferStateComplete, uuid.NewString()),
	}
	for _, illegalMsg := range illegal {
		tag := illegalMsg.Tag
		err := scenario.WithUpstreamHandshake(env, from, func(conn *endpoint.UpstreamConnection) error {
			if _, err := conn.SendIllegalMsg(illegalMsg); err != nil {
				return err
			}
			notification, err := conn.ExpectMessage(message.TagNotification, 0)
			if err != nil {
				return err
			}
			warnings, err := validator.Notification(notification, message.NotificationProtocolError, message.SeverityFatal)
			if err != nil {
				return err
			}
			emitWarnings(env, from, warnings)

			shutdown := message.NewNotification(message.NotificationMachineShutdown, message.SeverityInformation, "this should fail")
			if _, sendErr := conn.SendMsg(shutdown); sendErr == nil {
				return fmt.Errorf("peer did not close connection as expected after %s", tag)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("sub-test %s: %w", tag, err)
		}
	}
	return nil
}

func testCompleteBoardTransfer(env *scenario.Environment) error {
	const from = "test_complete_board_transfer"
	return scenario.WithUpstreamHandshake(env, from, func(conn *endpoint.UpstreamConnection) error {
		if _, err := conn.SendMsg(message.NewMachineReady(message.MachineReadyOptions{})); err != nil {
			return err
		}
		available, err := conn.ExpectMessage(message.TagBoardAvailable, 0)
		if err != nil {
			return err
		}
		if warnings, verr := validator.BoardInfo(available); verr != nil {
			return verr
		} else {
			emitWarnings(env, from, warnings)
		}
		boardID, _ := available.Get("BoardId")

		if _, err := conn.SendMsg(message.NewStartTransport(boardID, nil)); err != nil {
			return err
		}
		finished, err := conn.ExpectMessage(message.TagTransportFinished, 0)
		if err != nil {
			return err
		}
		if gotID, _ := finished.Get("BoardId"); gotID != boardID {
			return fmt.Errorf("TransportFinished BoardId %q does not match BoardAvailable BoardId %q", gotID, boardID)
		}

		_, err = conn.SendMsg(message.NewStopTransport(message.TransferStateComplete, boardID))
		return err
	})
}

func emitWarnings(env *scenario.Environment, from string, warnings []string) {
	for _, w := range warnings {
		_ = env.RunCallback(scenario.CbEvent{Kind: scenario.CbWarning, Text: w}, from)
	}
}

func indexOf(haystack, needle []byte) int {
	n := len(needle)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(haystack); i++ {
		match := true
		for j := 0; j < n; j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
