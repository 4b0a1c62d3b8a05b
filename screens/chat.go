package screens

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"group-chat/api"
	"group-chat/domain"
	"group-chat/errors"
	"group-chat/session"
	"group-chat/timeline"
)

// ChatScreen owns the message state of one open group conversation.
//
// Overlapping fetches for the same group have no backend ordering guarantee,
// so every Refresh takes a generation number and a result is dropped when a
// newer Refresh was issued while it was in flight.
type ChatScreen struct {
	svc       api.IChatService
	sess      *session.Session
	log       *slog.Logger
	groupID   domain.GroupID
	groupName string

	generation uint64
	messages   []domain.Message

	// now is injected so tests can pin the Today/Yesterday labels.
	now func() time.Time
}

func NewChatScreen(svc api.IChatService, sess *session.Session, log *slog.Logger,
	groupID domain.GroupID, groupName string) *ChatScreen {
	return &ChatScreen{
		svc:       svc,
		sess:      sess,
		log:       log,
		groupID:   groupID,
		groupName: groupName,
		now:       time.Now,
	}
}

func (c *ChatScreen) GroupName() string {
	return c.groupName
}

// Refresh fetches the full message set for the group. A result that arrives
// after a newer Refresh was issued is discarded and reported as stale.
func (c *ChatScreen) Refresh(ctx context.Context) error {
	c.generation++
	generation := c.generation

	messages, err := c.svc.ListMessages(ctx, c.groupID)
	if err != nil {
		return err
	}
	if generation != c.generation {
		c.log.Debug(fmt.Sprintf("Discarding stale fetch %d for group %d", generation, c.groupID))
		return errors.ErrStaleFetch
	}
	c.messages = messages
	return nil
}

// Send posts a message attributed to the session user and appends the
// created record locally, so the next render shows it without refetching.
func (c *ChatScreen) Send(ctx context.Context, body string) (domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	user, ok := c.sess.Current()
	if !ok {
		return domain.Message{}, errors.ErrNoSession
	}
	created, err := c.svc.SendMessage(ctx, c.groupID, user.Email, body)
	if err != nil {
		return domain.Message{}, err
	}
	c.messages = append(c.messages, created)
	return created, nil
}

// Items recomputes the display sequence on every call, newest-first for a
// bottom-anchored view, and reports how many records were skipped for
// malformed timestamps.
func (c *ChatScreen) Items() ([]timeline.Item, int) {
	seq := timeline.Build(c.messages, c.now(), c.log)
	return timeline.Render(seq.Items), seq.Skipped
}
