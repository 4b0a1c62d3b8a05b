package screens

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"group-chat/api"
	"group-chat/domain"
	"group-chat/errors"
	"group-chat/mocks"
	"group-chat/session"
	"group-chat/timeline"
)

func newChatFixture(t *testing.T) (*mocks.MockIChatService, *session.Session, *ChatScreen) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockIChatService(ctrl)
	sess := session.New()
	sess.Login(domain.User{ID: 1, Email: "alice@example.com", Role: "user"})

	screen := NewChatScreen(mock, sess, logs.GetLoggerFromLevel(slog.LevelDebug), 42, "Weekend Trip")
	screen.now = func() time.Time { return time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC) }
	return mock, sess, screen
}

func TestChatScreen_RefreshAndItems(t *testing.T) {
	req := require.New(t)
	mock, _, screen := newChatFixture(t)

	mock.EXPECT().ListMessages(gomock.Any(), domain.GroupID(42)).Return([]domain.Message{
		{ID: 2, GroupID: 42, SenderEmail: "bob@example.com", Body: "second", CreatedAt: "2024-01-02T08:00:00Z"},
		{ID: 3, GroupID: 42, SenderEmail: "bob@example.com", Body: "broken", CreatedAt: "garbage"},
		{ID: 1, GroupID: 42, SenderEmail: "alice@example.com", Body: "first", CreatedAt: "2024-01-01T08:00:00Z"},
	}, nil)

	req.NoError(screen.Refresh(context.Background()))

	items, skipped := screen.Items()
	req.Equal(1, skipped)
	req.Len(items, 4) // two messages, two day separators

	// Newest-first presentation: latest message leads, its separator follows.
	req.Equal(timeline.KindMessage, items[0].Kind)
	req.Equal(domain.MessageID(2), items[0].Message.ID)
	req.Equal(timeline.KindDateSeparator, items[1].Kind)
	req.Equal(domain.MessageID(1), items[2].Message.ID)
	req.Equal(timeline.KindDateSeparator, items[3].Kind)
}

func TestChatScreen_StaleFetchIsDiscarded(t *testing.T) {
	req := require.New(t)
	mock, _, screen := newChatFixture(t)
	ctx := context.Background()

	fresh := []domain.Message{
		{ID: 2, GroupID: 42, SenderEmail: "bob@example.com", Body: "fresh", CreatedAt: "2024-01-02T08:00:00Z"},
	}

	// The slow first fetch sees a newer Refresh complete while it is still
	// in flight; its own result must then be dropped.
	mock.EXPECT().ListMessages(gomock.Any(), domain.GroupID(42)).DoAndReturn(
		func(context.Context, domain.GroupID) ([]domain.Message, error) {
			req.NoError(screen.Refresh(ctx))
			return []domain.Message{
				{ID: 1, GroupID: 42, SenderEmail: "bob@example.com", Body: "stale", CreatedAt: "2024-01-01T08:00:00Z"},
			}, nil
		})
	mock.EXPECT().ListMessages(gomock.Any(), domain.GroupID(42)).Return(fresh, nil)

	req.ErrorIs(screen.Refresh(ctx), errors.ErrStaleFetch)

	items, _ := screen.Items()
	req.Len(items, 2)
	req.Equal("fresh", items[0].Message.Body)
}

func TestChatScreen_SendAppendsCreatedMessage(t *testing.T) {
	req := require.New(t)
	mock, _, screen := newChatFixture(t)

	created := domain.Message{
		ID: 9, GroupID: 42, SenderEmail: "alice@example.com",
		Body: "hello", CreatedAt: "2024-01-02T09:00:00Z",
	}
	mock.EXPECT().SendMessage(gomock.Any(), domain.GroupID(42), "alice@example.com", "hello").
		Return(created, nil)

	got, err := screen.Send(context.Background(), "hello")
	req.NoError(err)
	req.Equal(created, got)

	items, _ := screen.Items()
	req.Equal(created, items[0].Message)
}

func TestChatScreen_SendValidation(t *testing.T) {
	req := require.New(t)
	mock, sess, screen := newChatFixture(t)
	_ = mock // no remote call may happen

	_, err := screen.Send(context.Background(), "   ")
	req.ErrorIs(err, errors.ErrEmptyMessage)

	sess.Logout()
	_, err = screen.Send(context.Background(), "hello")
	req.ErrorIs(err, errors.ErrNoSession)
}

func TestSignIn_FailureLeavesSessionUntouched(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockIChatService(ctrl)
	sess := session.New()

	mock.EXPECT().SignIn(gomock.Any(), "alice@example.com", "wrong").
		Return(api.AuthResult{}, &api.RemoteError{Status: 401, Detail: "Invalid credentials"})

	err := SignIn(context.Background(), mock, sess, "alice@example.com", "wrong")
	req.Error(err)
	_, ok := sess.Current()
	req.False(ok)
}

func TestSignIn_Success(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockIChatService(ctrl)
	sess := session.New()

	alice := domain.User{ID: 1, Email: "alice@example.com", FirstName: "Alice"}
	mock.EXPECT().SignIn(gomock.Any(), "alice@example.com", "secret").
		Return(api.AuthResult{User: alice, Token: "a.b.c"}, nil)

	req.NoError(SignIn(context.Background(), mock, sess, "alice@example.com", "secret"))

	current, ok := sess.Current()
	req.True(ok)
	req.Equal(alice, current)
	req.Equal("a.b.c", sess.Token())
}

func TestSignIn_LocalValidationSkipsNetwork(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockIChatService(ctrl) // expects no calls
	sess := session.New()

	req.Error(SignIn(context.Background(), mock, sess, "", "secret"))
	req.Error(SignIn(context.Background(), mock, sess, "alice@example.com", ""))
}
