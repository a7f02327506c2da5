package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"lack-chat/domain"
)

func storedMessage(channel, author, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		Channel:   channel,
		Author:    domain.User{ID: domain.UserID(author), Nickname: author},
		Content:   content,
		CreatedAt: at,
	}
}

func TestMessageRepository_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()
	stored := []domain.Message{
		storedMessage("general", "alice", "first", at),
		storedMessage("general", "bob", "second", at.Add(1*time.Minute)),
		storedMessage("general", "carol", "third", at.Add(2*time.Minute)),
	}
	for _, message := range stored {
		req.NoError(repository.StoreMessage(message))
	}

	fetched, _, err := repository.GetMessages("general", nil)
	req.NoError(err)
	req.Len(fetched, len(stored))
	req.Equal([]string{"third", "second", "first"},
		lo.Map(fetched, func(m domain.Message, _ int) string { return m.Content }))
}

func TestMessageRepository_Cursor_Pagination(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)
	at := time.Now().UTC()
	for i, content := range []string{"one", "two", "three"} {
		req.NoError(repository.StoreMessage(
			storedMessage("general", "alice", content, at.Add(time.Duration(i)*time.Minute))))
	}

	// First page holds the two newest messages
	page, cursor, err := repository.GetMessages("general", nil)
	req.NoError(err)
	req.Len(page, limit)
	req.Equal("three", page[0].Content)
	req.NotNil(cursor)

	// Second page resumes behind the cursor
	page, _, err = repository.GetMessages("general", cursor)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal("one", page[0].Content)
}

func TestMessageRepository_Channels_Are_Isolated(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(storedMessage("general", "alice", "hello", at)))
	req.NoError(repository.StoreMessage(storedMessage("random", "bob", "hi", at)))

	fetched, _, err := repository.GetMessages("general", nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("hello", fetched[0].Content)
}
