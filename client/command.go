package client

import (
	"strings"

	"lack-chat/errors"
)

// Command is one parsed slash command. The set is closed: anything the
// parser does not recognize is a user error, not an extension point.
type Command interface {
	isCommand()
}

type JoinCommand struct{ Channel string }

type SelectCommand struct{ Channel string }

type InviteCommand struct{ Nickname string }

// RevokeCommand is an admin-only removal that leaves the ban ledger alone.
type RevokeCommand struct{ Nickname string }

type KickCommand struct{ Nickname string }

// QuitCommand deletes the selected channel for everyone, admin only.
type QuitCommand struct{}

// CancelCommand leaves the selected channel.
type CancelCommand struct{}

type ListCommand struct{}

type StatusCommand struct{ Status string }

func (JoinCommand) isCommand()   {}
func (SelectCommand) isCommand() {}
func (InviteCommand) isCommand() {}
func (RevokeCommand) isCommand() {}
func (KickCommand) isCommand()   {}
func (QuitCommand) isCommand()   {}
func (CancelCommand) isCommand() {}
func (ListCommand) isCommand()   {}
func (StatusCommand) isCommand() {}

// ParseCommand turns a "/verb arg" line into a Command. Repeated whitespace
// between tokens is collapsed.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	if len(fields) == 0 {
		return nil, errors.ErrEmptyCommand
	}
	verb, args := fields[0], fields[1:]

	requireArg := func() (string, error) {
		if len(args) == 0 {
			return "", errors.ErrMissingArgument
		}
		return args[0], nil
	}

	switch verb {
	case "join":
		channel, err := requireArg()
		if err != nil {
			return nil, err
		}
		return JoinCommand{Channel: channel}, nil
	case "select":
		channel, err := requireArg()
		if err != nil {
			return nil, err
		}
		return SelectCommand{Channel: channel}, nil
	case "invite":
		nickname, err := requireArg()
		if err != nil {
			return nil, err
		}
		return InviteCommand{Nickname: nickname}, nil
	case "revoke":
		nickname, err := requireArg()
		if err != nil {
			return nil, err
		}
		return RevokeCommand{Nickname: nickname}, nil
	case "kick":
		nickname, err := requireArg()
		if err != nil {
			return nil, err
		}
		return KickCommand{Nickname: nickname}, nil
	case "quit":
		return QuitCommand{}, nil
	case "cancel":
		return CancelCommand{}, nil
	case "list":
		return ListCommand{}, nil
	case "status":
		status, err := requireArg()
		if err != nil {
			return nil, err
		}
		return StatusCommand{Status: strings.ToUpper(status)}, nil
	default:
		return nil, errors.ErrUnknownCommand
	}
}
