package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"lack-chat/domain"
	"lack-chat/errors"
	"lack-chat/transport"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer func(prompt string) bool

// CommandDispatcher executes parsed commands against the connection
// registry and the store, and turns plain lines into messages on the
// selected channel.
type CommandDispatcher struct {
	registry *ChannelConnectionRegistry
	store    *Store
	global   *ClientChannelConnection
	confirm  Confirmer
	timeout  time.Duration
	log      *slog.Logger
}

func NewCommandDispatcher(registry *ChannelConnectionRegistry, store *Store,
	global *ClientChannelConnection, confirm Confirmer, timeout time.Duration,
	log *slog.Logger) *CommandDispatcher {
	return &CommandDispatcher{
		registry: registry,
		store:    store,
		global:   global,
		confirm:  confirm,
		timeout:  timeout,
		log:      log,
	}
}

// Dispatch handles one input line: a slash command, or message content for
// the selected channel. The returned string is feedback for the user.
func (d *CommandDispatcher) Dispatch(ctx context.Context, line string) (string, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		return d.sendMessage(ctx, trimmed)
	}

	command, err := ParseCommand(trimmed)
	if err != nil {
		return "", err
	}
	switch c := command.(type) {
	case JoinCommand:
		return d.join(ctx, c.Channel)
	case SelectCommand:
		if _, err := d.registry.Select(c.Channel); err != nil {
			return "", err
		}
		return fmt.Sprintf("switched to #%s", c.Channel), nil
	case InviteCommand:
		conn, err := d.registry.Selected()
		if err != nil {
			return "", err
		}
		ctx, cancel := d.opCtx(ctx)
		defer cancel()
		if err := conn.InviteUser(ctx, c.Nickname); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s invited to #%s", c.Nickname, conn.Channel), nil
	case RevokeCommand:
		conn, err := d.registry.Selected()
		if err != nil {
			return "", err
		}
		ctx, cancel := d.opCtx(ctx)
		defer cancel()
		if err := conn.KickUser(ctx, c.Nickname, true); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s removed from #%s", c.Nickname, conn.Channel), nil
	case KickCommand:
		conn, err := d.registry.Selected()
		if err != nil {
			return "", err
		}
		ctx, cancel := d.opCtx(ctx)
		defer cancel()
		if err := conn.KickUser(ctx, c.Nickname, false); err != nil {
			return "", err
		}
		return fmt.Sprintf("kick vote recorded against %s", c.Nickname), nil
	case QuitCommand:
		return d.quit(ctx)
	case CancelCommand:
		return d.cancel(ctx)
	case ListCommand:
		return d.renderList(), nil
	case StatusCommand:
		ctx, cancel := d.opCtx(ctx)
		defer cancel()
		if err := d.global.SetStatus(ctx, c.Status); err != nil {
			return "", err
		}
		d.store.SetViewerStatus(c.Status)
		return fmt.Sprintf("status set to %s", c.Status), nil
	}
	return "", errors.ErrUnknownCommand
}

// opCtx bounds one request/ack round trip.
func (d *CommandDispatcher) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

func (d *CommandDispatcher) sendMessage(ctx context.Context, content string) (string, error) {
	conn, err := d.registry.Selected()
	if err != nil {
		return "", err
	}
	ctx, cancel := d.opCtx(ctx)
	defer cancel()
	message, err := conn.AddMessage(ctx, content)
	if err != nil {
		return "", err
	}
	// The sender is excluded from the broadcast, echo locally instead
	d.echoLocal(conn.Channel, message)
	return "", nil
}

func (d *CommandDispatcher) echoLocal(channel string, message domain.Message) {
	payload, err := json.Marshal(message)
	if err != nil {
		d.log.Warn("local echo failed", slog.Any("error", err))
		return
	}
	d.store.Dispatch(channel, transport.Frame{Event: "message", Payload: payload})
}

func (d *CommandDispatcher) join(ctx context.Context, channel string) (string, error) {
	conn, opened, err := d.registry.Join(channel)
	if err != nil {
		return "", err
	}
	if opened {
		go d.pump(conn)
		ctx, cancel := d.opCtx(ctx)
		defer cancel()
		if _, err := conn.JoinChannel(ctx); err != nil && !isAlreadyMember(err) {
			d.registry.Leave(channel)
			return "", err
		}
		page, err := conn.GetMessages(ctx, nil)
		if err != nil {
			return "", err
		}
		viewer := d.store.Snapshot().Viewer
		d.store.Hydrate(channel, []domain.User{viewer}, lo.Reverse(page.Messages))
	}
	if _, err := d.registry.Select(channel); err != nil {
		return "", err
	}
	return fmt.Sprintf("joined #%s", channel), nil
}

// isAlreadyMember lets a re-join of a channel the server still counts us in
// degrade to a plain selection.
func isAlreadyMember(err error) bool {
	var remote *RemoteError
	return stderrors.As(err, &remote) && remote.Message == errors.ErrAlreadyMember.Error()
}

// quit deletes the selected channel for everyone. Admin enforcement is the
// server's, a non-admin gets the error back in the ack.
func (d *CommandDispatcher) quit(ctx context.Context) (string, error) {
	conn, err := d.registry.Selected()
	if err != nil {
		return "", err
	}
	if !d.confirm(fmt.Sprintf("delete #%s for everyone?", conn.Channel)) {
		return "", errors.ErrActionAborted
	}
	ctx, cancel := d.opCtx(ctx)
	defer cancel()
	if err := conn.DeleteChannel(ctx); err != nil {
		return "", err
	}
	d.registry.Leave(conn.Channel)
	return fmt.Sprintf("deleted #%s", conn.Channel), nil
}

// cancel leaves the selected channel. An admin leaving takes the channel
// down with them, the server reports that case.
func (d *CommandDispatcher) cancel(ctx context.Context) (string, error) {
	conn, err := d.registry.Selected()
	if err != nil {
		return "", err
	}
	if !d.confirm(fmt.Sprintf("leave #%s?", conn.Channel)) {
		return "", errors.ErrActionAborted
	}
	ctx, cancel := d.opCtx(ctx)
	defer cancel()
	deleted, err := conn.LeaveChannel(ctx)
	if err != nil {
		return "", err
	}
	d.registry.Leave(conn.Channel)
	if deleted {
		return fmt.Sprintf("#%s deleted, you were its admin", conn.Channel), nil
	}
	return fmt.Sprintf("left #%s", conn.Channel), nil
}

// pump feeds the connection's pushed events into the store until it dies.
func (d *CommandDispatcher) pump(conn *ClientChannelConnection) {
	for frame := range conn.Events() {
		d.store.Dispatch(conn.Channel, frame)
	}
}

// renderList prints the selected channel's members, or the online users
// when no channel is selected.
func (d *CommandDispatcher) renderList() string {
	snapshot := d.store.Snapshot()
	var builder strings.Builder
	table := tablewriter.NewWriter(&builder)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	if conn, err := d.registry.Selected(); err == nil {
		if cs, ok := snapshot.Channels[conn.Channel]; ok {
			table.SetHeader([]string{"Member", "Typing"})
			nicknames := lo.Keys(cs.Members)
			sort.Strings(nicknames)
			for _, nickname := range nicknames {
				table.Append([]string{nickname, cs.Typing[nickname]})
			}
			table.Render()
			return builder.String()
		}
	}

	table.SetHeader([]string{"Online", "Status"})
	nicknames := lo.Keys(snapshot.Online)
	sort.Strings(nicknames)
	for _, nickname := range nicknames {
		status := snapshot.Statuses[nickname]
		if status == "" {
			status = "ONLINE"
		}
		table.Append([]string{nickname, status})
	}
	table.Render()
	return builder.String()
}
