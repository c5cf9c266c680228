// The "upstream" family plays the downstream (server) role against a peer
// that plays upstream, i.e. this harness listens and waits for the system
// under test to connect as the board-sending side (grounded on
// original_source's test_upstream_ifc.py; supplements spec.md §8, which
// only spells out the downstream-playing scenario set in detail — see
// SPEC_FULL.md "Supplemented Features").
package cases

import (
	"fmt"

	"github.com/hermes-org/acceptance-tests/internal/hermes/endpoint"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/hermes-org/acceptance-tests/internal/hermes/scenario"
	"github.com/hermes-org/acceptance-tests/internal/hermes/validator"
)

const moduleUpstream = "cases.upstream"

func registerUpstream(reg *scenario.Registry) error {
	entries := []struct {
		name        string
		description string
		fn          scenario.Func
	}{
		{"test_start_handshake_shutdown", `
			Start the server, accept the peer, receive its ServiceDescription,
			and validate Version/MachineId/LaneId.`,
			testStartHandshakeShutdown},
		{"test_terminate_on_wrong_message_in_not_available_not_ready2", `
			After handshake, send each of ServiceDescription,
			RevokeBoardAvailable, TransportFinished; each must provoke a
			ProtocolError Notification and the peer must then close the
			connection.`,
			testTerminateOnWrongMessageInNotAvailableNotReady2},
	}
	for _, e := range entries {
		if err := reg.Register(e.name, moduleUpstream, e.description, e.fn); err != nil {
			return err
		}
	}
	return nil
}

func testStartHandshakeShutdown(env *scenario.Environment) error {
	const from = "test_start_handshake_shutdown"
	return scenario.WithDownstream(env, from, func(conn *endpoint.DownstreamConnection) error {
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

func testTerminateOnWrongMessageInNotAvailableNotReady2(env *scenario.Environment) error {
	const from = "test_terminate_on_wrong_message_in_not_available_not_ready2"
	illegal := []*message.Message{
		env.ServiceDescriptionMessage(),
		message.NewRevokeBoardAvailable(),
		message.NewTransportFinished(message.TransferStateComplete, "some_guid"),
	}
	for _, illegalMsg := range illegal {
		tag := illegalMsg.Tag
		err := scenario.WithDownstreamHandshake(env, from, func(conn *endpoint.DownstreamConnection) error {
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
