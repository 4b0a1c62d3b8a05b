package screens

import (
	"context"
	"log/slog"

	"group-chat/api"
	"group-chat/domain"
	"group-chat/errors"
	"group-chat/session"
)

// HomeScreen lists the groups of the signed-in user.
type HomeScreen struct {
	svc    api.IChatService
	sess   *session.Session
	log    *slog.Logger
	groups []domain.Group
}

func NewHomeScreen(svc api.IChatService, sess *session.Session, log *slog.Logger) *HomeScreen {
	return &HomeScreen{svc: svc, sess: sess, log: log}
}

func (h *HomeScreen) Refresh(ctx context.Context) error {
	user, ok := h.sess.Current()
	if !ok {
		return errors.ErrNoSession
	}
	groups, err := h.svc.ListGroups(ctx, user.Email)
	if err != nil {
		return err
	}
	h.groups = groups
	return nil
}

func (h *HomeScreen) Groups() []domain.Group {
	return h.groups
}
