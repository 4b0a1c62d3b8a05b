// Package notify handles push-notification registration.
// It acquires a device-unique delivery token after asking for permission.
// The token is not transmitted anywhere yet; this is a no-op integration point.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"group-chat/errors"
)

type PermissionStatus int

const (
	PermissionUndetermined PermissionStatus = iota
	PermissionGranted
	PermissionDenied
)

// ITokenProvider abstracts the platform notification service.
type ITokenProvider interface {
	Permission(ctx context.Context) (PermissionStatus, error)
	RequestPermission(ctx context.Context) (PermissionStatus, error)
	DeviceToken(ctx context.Context) (string, error)
}

// Register asks for permission when it was not granted yet and returns the
// device token. A refusal yields errors.ErrPermissionDenied; the caller
// surfaces it and moves on, registration is never fatal.
func Register(ctx context.Context, provider ITokenProvider, log *slog.Logger) (string, error) {
	status, err := provider.Permission(ctx)
	if err != nil {
		return "", fmt.Errorf("reading notification permission: %w", err)
	}
	if status != PermissionGranted {
		status, err = provider.RequestPermission(ctx)
		if err != nil {
			return "", fmt.Errorf("requesting notification permission: %w", err)
		}
	}
	if status != PermissionGranted {
		return "", errors.ErrPermissionDenied
	}

	token, err := provider.DeviceToken(ctx)
	if err != nil {
		return "", fmt.Errorf("acquiring device token: %w", err)
	}

	// Nobody consumes the token server-side yet.
	log.Info(fmt.Sprintf("Push token acquired: %s", token))
	return token, nil
}
