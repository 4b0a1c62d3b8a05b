package timeline

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"group-chat/domain"
)

// now is far away from the fixture dates so separators get dated labels
// unless a test pins it on purpose.
var farNow = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

func message(id int64, createdAt string) domain.Message {
	return domain.Message{
		ID:          domain.MessageID(id),
		GroupID:     1,
		SenderEmail: "alice@example.com",
		Body:        "hello",
		CreatedAt:   createdAt,
	}
}

func messageIDs(items []Item) []int64 {
	var ids []int64
	for _, item := range items {
		if item.Kind == KindMessage {
			ids = append(ids, int64(item.Message.ID))
		}
	}
	return ids
}

func TestBuild_BucketsSameLocalDayOnce(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Both instants cross local midnight with the +5:30 offset and land on
	// 2024-01-02, so a single separator must precede them.
	messages := []domain.Message{
		message(1, "2024-01-01T18:30:00Z"),
		message(2, "2024-01-01T19:00:00Z"),
	}
	now := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)

	seq := Build(messages, now, log)
	req.Zero(seq.Skipped)
	req.Len(seq.Items, 3)

	req.Equal(KindDateSeparator, seq.Items[0].Kind)
	req.Equal("2024-01-02", seq.Items[0].Date)
	req.Equal("Today", seq.Items[0].Label)

	req.Equal([]int64{1, 2}, messageIDs(seq.Items))
	req.Equal("00:00", seq.Items[1].LocalTime)
	req.Equal("00:30", seq.Items[2].LocalTime)
}

func TestBuild_SeparatorPerDistinctLocalDay(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// 18:29Z is still 2024-01-01 locally (23:59), 18:30Z is the next day.
	messages := []domain.Message{
		message(1, "2024-01-01T18:29:00Z"),
		message(2, "2024-01-01T18:30:00Z"),
		message(3, "2024-01-01T20:00:00Z"),
	}

	seq := Build(messages, farNow, log)
	req.Len(seq.Items, 5)
	req.Equal(KindDateSeparator, seq.Items[0].Kind)
	req.Equal("2024-01-01", seq.Items[0].Date)
	req.Equal("1 Jan 2024", seq.Items[0].Label)
	req.Equal(KindMessage, seq.Items[1].Kind)
	req.Equal(KindDateSeparator, seq.Items[2].Kind)
	req.Equal("2024-01-02", seq.Items[2].Date)
	req.Equal("2 Jan 2024", seq.Items[2].Label)
}

func TestBuild_SortsAscendingAndStable(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	messages := []domain.Message{
		message(3, "2024-03-05T10:00:00Z"),
		message(1, "2024-03-05T08:00:00Z"),
		message(4, "2024-03-05T10:00:00Z"), // tie with 3, must stay after it
		message(2, "2024-03-05T09:00:00Z"),
	}

	seq := Build(messages, farNow, log)
	req.Equal([]int64{1, 2, 3, 4}, messageIDs(seq.Items))
}

func TestBuild_YesterdayLabel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	messages := []domain.Message{message(1, "2024-01-01T10:00:00Z")}
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	seq := Build(messages, now, log)
	req.Equal("Yesterday", seq.Items[0].Label)
}

func TestBuild_SkipsMalformedTimestamps(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		name        string
		messages    []domain.Message
		wantSkipped int
		wantIDs     []int64
	}{
		{
			name: "Malformed record in the middle",
			messages: []domain.Message{
				message(1, "2024-01-03T08:00:00Z"),
				message(2, "not-a-timestamp"),
				message(3, "2024-01-03T09:00:00Z"),
			},
			wantSkipped: 1,
			wantIDs:     []int64{1, 3},
		},
		{
			name: "Missing timestamp does not open a bucket",
			messages: []domain.Message{
				message(1, ""),
				message(2, "2024-01-03T08:00:00Z"),
			},
			wantSkipped: 1,
			wantIDs:     []int64{2},
		},
		{
			name:        "All malformed",
			messages:    []domain.Message{message(1, "yesterday-ish")},
			wantSkipped: 1,
			wantIDs:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := Build(tt.messages, farNow, log)
			req.Equal(tt.wantSkipped, seq.Skipped)
			req.Equal(tt.wantIDs, messageIDs(seq.Items))

			// Separators only ever precede surviving messages.
			separators := 0
			for _, item := range seq.Items {
				if item.Kind == KindDateSeparator {
					separators++
				}
			}
			if len(tt.wantIDs) == 0 {
				req.Zero(separators)
			}
		})
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	seq := Build(nil, farNow, log)
	req.Empty(seq.Items)
	req.Zero(seq.Skipped)
}

func TestBuild_Idempotent(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	messages := []domain.Message{
		message(2, "2024-01-02T04:00:00Z"),
		message(1, "2024-01-01T04:00:00Z"),
	}

	first := Build(messages, farNow, log)
	second := Build(messages, farNow, log)
	req.Equal(first, second)
}

func TestRender_ReversalLaw(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	messages := []domain.Message{
		message(1, "2024-01-01T04:00:00Z"),
		message(2, "2024-01-02T04:00:00Z"),
		message(3, "2024-01-02T05:00:00Z"),
	}

	ascending := Build(messages, farNow, log).Items
	presented := Render(ascending)

	req.Len(presented, len(ascending))
	for i := range ascending {
		req.Equal(ascending[i], presented[len(ascending)-1-i])
	}

	// Reversing the presentation reproduces the bucketed ascending order.
	req.Equal(ascending, Render(presented))

	// Newest message first, its day separator last.
	req.Equal(KindMessage, presented[0].Kind)
	req.Equal(int64(3), int64(presented[0].Message.ID))
	req.Equal(KindDateSeparator, presented[len(presented)-1].Kind)
}

func TestRender_Empty(t *testing.T) {
	require.Nil(t, Render(nil))
}
