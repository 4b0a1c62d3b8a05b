// Package conference launches video calls on the hosted Jitsi service.
// It builds the room URL and hands off to an external conferencing command.
// Control returns to the caller when the session ends.
package conference

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"

	"group-chat/errors"
)

const meetBase = "https://meet.jit.si"

type Options struct {
	Room        string
	DisplayName string
	AudioOnly   bool
}

// MeetURL builds the hosted conference URL for a room name.
func MeetURL(room string) string {
	return fmt.Sprintf("%s/%s", meetBase, url.PathEscape(room))
}

type ILauncher interface {
	Launch(ctx context.Context, opts Options) error
}

// CommandLauncher runs an external conferencing command with the room URL
// and blocks until the process exits or the context is canceled, mirroring
// the "return when the session ends" contract of the mobile SDK.
type CommandLauncher struct {
	command string
	log     *slog.Logger
}

func NewCommandLauncher(command string, log *slog.Logger) *CommandLauncher {
	return &CommandLauncher{command: command, log: log}
}

func (l *CommandLauncher) Launch(ctx context.Context, opts Options) error {
	if strings.TrimSpace(opts.Room) == "" {
		return errors.ErrEmptyRoomName
	}
	if strings.TrimSpace(opts.DisplayName) == "" {
		return errors.ErrEmptyDisplayName
	}

	args := []string{MeetURL(opts.Room), "--display-name", opts.DisplayName}
	if opts.AudioOnly {
		args = append(args, "--audio-only")
	}

	l.log.Info(fmt.Sprintf("Launching conference %s as %s", opts.Room, opts.DisplayName))
	cmd := exec.CommandContext(ctx, l.command, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("conference session failed: %w", err)
	}
	l.log.Info(fmt.Sprintf("Conference %s ended", opts.Room))
	return nil
}
