// Package errors defines the error vocabulary of the chat core.
//
// Domain errors are expected outcomes of user actions (bad preconditions).
// They travel back to clients inside acknowledgement payloads and are never
// logged as faults. Everything else (storage, transport) is infrastructure
// and propagates as a regular error.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrChannelNotFound  = fmt.Errorf("channel does not exist")
	ErrUserNotFound     = fmt.Errorf("user does not exist")
	ErrChannelPrivate   = fmt.Errorf("channel is not public")
	ErrAlreadyMember    = fmt.Errorf("you are already in this channel")
	ErrNotMember        = fmt.Errorf("user is not in this channel")
	ErrNotAdmin         = fmt.Errorf("you are not admin of this channel")
	ErrUserBanned       = fmt.Errorf("this user is banned from this channel")
	ErrAlreadyKicked    = fmt.Errorf("you have already kicked this user once")
	ErrKickAdmin        = fmt.Errorf("you cannot kick admin")
	ErrKickSelf         = fmt.Errorf("you cannot kick yourself")
	ErrNotJoined        = fmt.Errorf("you are not joined in this channel")
	ErrInvalidPayload   = fmt.Errorf("invalid request payload")
	ErrUnknownCommand   = fmt.Errorf("unrecognized command")
	ErrEmptyCommand     = fmt.Errorf("empty command")
	ErrMissingArgument  = fmt.Errorf("missing command argument")
	ErrActionAborted    = fmt.Errorf("action aborted")
	ErrAckTimeout       = fmt.Errorf("acknowledgement timed out")
	ErrConnectionClosed = fmt.Errorf("connection closed")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
)

// domainErrors lists every expected validation outcome.
// Membership in this set decides ack-vs-fault at the transport boundary.
var domainErrors = []error{
	ErrChannelNotFound,
	ErrUserNotFound,
	ErrChannelPrivate,
	ErrAlreadyMember,
	ErrNotMember,
	ErrNotAdmin,
	ErrUserBanned,
	ErrAlreadyKicked,
	ErrKickAdmin,
	ErrKickSelf,
	ErrNotJoined,
	ErrInvalidPayload,
	ErrUnknownCommand,
	ErrEmptyCommand,
	ErrMissingArgument,
	ErrActionAborted,
}

// IsDomain reports whether err is an expected domain validation failure,
// as opposed to an infrastructure fault.
func IsDomain(err error) bool {
	for _, domainErr := range domainErrors {
		if stderrors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
