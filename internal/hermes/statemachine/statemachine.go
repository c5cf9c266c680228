// Package statemachine implements the two symmetrical IPC-Hermes-9852
// horizontal-channel transition tables and the state machine that
// consults them on every send and receive (spec §3, §4.B).
package statemachine

import (
	"fmt"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/hermes-org/acceptance-tests/internal/logger"
)

// componentLog resolves the "ipc_hermes" component logger lazily so that a
// logger.Init call made after this package is imported still takes effect,
// mirroring Python's mutate-in-place named loggers.
func componentLog() *logger.Logger {
	return logger.Get().WithComponent("ipc_hermes")
}

// State is one of the nine horizontal-channel protocol states.
type State string

const (
	StateNotConnected                 State = "NotConnected"
	StateServiceDescriptionDownstream State = "ServiceDescriptionDownstream"
	StateNotAvailableNotReady         State = "NotAvailableNotReady"
	StateBoardAvailable               State = "BoardAvailable"
	StateAvailableAndReady            State = "AvailableAndReady"
	StateMachineReady                 State = "MachineReady"
	StateTransporting                 State = "Transporting"
	StateTransportFinished            State = "TransportFinished"
	StateTransportStopped             State = "TransportStopped"
)

// transitionTable maps tag -> fromState -> toState.
type transitionTable map[message.Tag]map[State]State

// UpstreamTransitionTable is consulted on send for an upstream endpoint and
// on receive for a downstream endpoint.
var UpstreamTransitionTable = transitionTable{
	message.TagServiceDescription: {
		StateNotConnected: StateServiceDescriptionDownstream,
	},
	message.TagMachineReady: {
		StateNotAvailableNotReady: StateMachineReady,
		StateBoardAvailable:       StateAvailableAndReady,
	},
	message.TagRevokeMachineReady: {
		StateMachineReady:      StateNotAvailableNotReady,
		StateAvailableAndReady: StateBoardAvailable,
	},
	message.TagStartTransport: {
		StateAvailableAndReady: StateTransporting,
		StateMachineReady:      StateTransporting,
	},
	message.TagStopTransport: {
		StateTransporting:      StateTransportStopped,
		StateTransportFinished: StateNotAvailableNotReady,
	},
}

// DownstreamTransitionTable is consulted on send for a downstream endpoint
// and on receive for an upstream endpoint.
var DownstreamTransitionTable = transitionTable{
	message.TagServiceDescription: {
		StateServiceDescriptionDownstream: StateNotAvailableNotReady,
	},
	message.TagBoardAvailable: {
		StateNotAvailableNotReady: StateBoardAvailable,
		StateMachineReady:         StateAvailableAndReady,
		StateTransporting:         StateTransporting,
		StateTransportStopped:     StateTransportStopped,
	},
	message.TagRevokeBoardAvailable: {
		StateBoardAvailable:    StateNotAvailableNotReady,
		StateAvailableAndReady: StateMachineReady,
		StateTransporting:      StateTransporting,
		StateTransportStopped:  StateTransportStopped,
	},
	message.TagTransportFinished: {
		StateTransporting:     StateTransportFinished,
		StateTransportStopped: StateNotAvailableNotReady,
	},
	message.TagBoardForecast: {
		StateNotAvailableNotReady: StateNotAvailableNotReady,
		StateMachineReady:         StateMachineReady,
		StateTransporting:         StateTransporting,
		StateTransportStopped:     StateTransportStopped,
	},
}

// StateMachine is the generic engine behind UpstreamStateMachine and
// DownstreamStateMachine; most callers want one of those two instead.
type StateMachine struct {
	state    State
	sendDict transitionTable
	recvDict transitionTable
}

func newStateMachine(sendDict, recvDict transitionTable) *StateMachine {
	return &StateMachine{state: StateNotConnected, sendDict: sendDict, recvDict: recvDict}
}

// NewUpstreamStateMachine builds the state machine an upstream (client)
// endpoint drives.
func NewUpstreamStateMachine() *StateMachine {
	return newStateMachine(UpstreamTransitionTable, DownstreamTransitionTable)
}

// NewDownstreamStateMachine builds the state machine a downstream (server)
// endpoint drives.
func NewDownstreamStateMachine() *StateMachine {
	return newStateMachine(DownstreamTransitionTable, UpstreamTransitionTable)
}

// State returns the current state.
func (sm *StateMachine) State() State { return sm.state }

// OnSendTag handles an outbound tag. By default an illegal send raises
// *StateMachineError; raiseOnError=false logs the violation and lets the
// send proceed anyway, for negative-path scenarios that deliberately
// inject illegal messages ("strict-send-off" mode, spec §4.B).
func (sm *StateMachine) OnSendTag(tag message.Tag, raiseOnError bool) error {
	stateDict, ok := sm.sendDict[tag]
	if !ok {
		// Tag not in the table (e.g. CheckAlive, Notification): protocol-transparent.
		return nil
	}

	newState, ok := stateDict[sm.state]
	if ok && newState == sm.state {
		return nil
	}
	if !ok {
		if raiseOnError {
			return hermeserrors.NewStateMachineError(string(sm.state), string(tag), nil)
		}
		componentLog().Debug("illegal message sent, continuing (strict-send-off)",
			"tag", string(tag), "state", string(sm.state))
		return nil
	}
	componentLog().Info("state transition", "from", string(sm.state), "to", string(newState), "trigger", string(tag))
	sm.state = newState
	return nil
}

// OnRecv handles an inbound message. Unlike OnSendTag this always raises
// *StateMachineError on an illegal transition; test scenarios rely on this
// to detect peer misbehavior.
func (sm *StateMachine) OnRecv(msg *message.Message) error {
	stateDict, ok := sm.recvDict[msg.Tag]
	if !ok {
		return nil
	}

	newState, ok := stateDict[sm.state]
	if !ok {
		return hermeserrors.NewStateMachineError(string(sm.state), string(msg.Tag),
			fmt.Errorf("no transition from %s on %s", sm.state, msg.Tag))
	}
	if newState == sm.state {
		return nil
	}
	componentLog().Info("state transition", "from", string(sm.state), "to", string(newState), "trigger", string(msg.Tag))
	sm.state = newState
	return nil
}
