package screens

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"group-chat/api"
	"group-chat/auth"
	"group-chat/domain"
	"group-chat/errors"
	"group-chat/session"
)

// CreateGroupScreen loads the selectable users and submits a new group.
type CreateGroupScreen struct {
	svc      api.IChatService
	sess     *session.Session
	log      *slog.Logger
	users    []domain.User
	selected map[domain.UserID]bool
}

func NewCreateGroupScreen(svc api.IChatService, sess *session.Session, log *slog.Logger) *CreateGroupScreen {
	return &CreateGroupScreen{
		svc:      svc,
		sess:     sess,
		log:      log,
		selected: make(map[domain.UserID]bool),
	}
}

func (s *CreateGroupScreen) LoadUsers(ctx context.Context) error {
	users, err := s.svc.ListUsers(ctx)
	if err != nil {
		return err
	}
	s.users = users
	return nil
}

func (s *CreateGroupScreen) Users() []domain.User {
	return s.users
}

func (s *CreateGroupScreen) Toggle(id domain.UserID) {
	if s.selected[id] {
		delete(s.selected, id)
		return
	}
	s.selected[id] = true
}

func (s *CreateGroupScreen) Selected(id domain.UserID) bool {
	return s.selected[id]
}

// Submit creates the group. The creator's id is always part of the member
// set, even when nothing was selected, and the selection is reset on success.
func (s *CreateGroupScreen) Submit(ctx context.Context, name string) (domain.Group, error) {
	user, ok := s.sess.Current()
	if !ok {
		return domain.Group{}, errors.ErrNoSession
	}

	memberIDs := lo.Uniq(append(lo.Keys(s.selected), user.ID))

	request := auth.CreateGroupRequest{
		Name:      name,
		MemberIDs: memberIDs,
		CreatedBy: user.Email,
		Role:      user.Role,
	}
	if err := auth.ValidateCreateGroup(request); err != nil {
		return domain.Group{}, err
	}

	group, err := s.svc.CreateGroup(ctx, name, memberIDs, user.Email, user.Role)
	if err != nil {
		return domain.Group{}, err
	}
	s.selected = make(map[domain.UserID]bool)
	return group, nil
}
