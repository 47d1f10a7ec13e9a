package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charbel-francis/saleaf/core/chatbot"
)

func newTestRepo(t *testing.T) *chatbotRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewChatbotRepository(client)
}

func Test_chatbotRepository_roundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	at := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	err := repo.AppendMessages(ctx, "stu-1",
		chatbot.Message{Role: chatbot.RoleUser, Text: "How do I apply?", At: at},
		chatbot.Message{Role: chatbot.RoleBot, Text: "From the Bursary Application section.", At: at},
	)
	require.NoError(t, err)

	conv, err := repo.GetConversation(ctx, "stu-1")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, chatbot.RoleUser, conv[0].Role)
	assert.Equal(t, "How do I apply?", conv[0].Text)
	assert.True(t, conv[0].At.Equal(at))

	other, err := repo.GetConversation(ctx, "stu-2")
	require.NoError(t, err)
	assert.Empty(t, other, "conversations are per user")
}

func Test_chatbotRepository_trimsHistory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for i := 0; i < maxConversationLen+10; i++ {
		err := repo.AppendMessages(ctx, "stu-1", chatbot.Message{Role: chatbot.RoleUser, Text: "q"})
		require.NoError(t, err)
	}

	conv, err := repo.GetConversation(ctx, "stu-1")
	require.NoError(t, err)
	assert.Len(t, conv, maxConversationLen)
}
