// Package redisstore keeps chatbot conversations in redis, capped per user so
// the history cannot grow without bound.
package redisstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/chatbot"
)

// maxConversationLen is the number of messages retained per user; older
// entries are trimmed away.
const maxConversationLen = 100

func Open(conf *core.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

type chatbotRepository struct {
	client *redis.Client
}

var _ chatbot.Repository = (*chatbotRepository)(nil) // interface compliance check

func NewChatbotRepository(client *redis.Client) *chatbotRepository {
	return &chatbotRepository{client: client}
}

func conversationKey(userID string) string {
	return "chatbot:conv:" + userID
}

func (repo *chatbotRepository) AppendMessages(ctx context.Context, userID string, msgs ...chatbot.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		raw, err := json.Marshal(msg)
		if err != nil {
			return errors.Wrap(err, "marshalling conversation message")
		}
		values = append(values, raw)
	}

	key := conversationKey(userID)
	pipe := repo.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -maxConversationLen, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "appending conversation messages")
	}
	return nil
}

func (repo *chatbotRepository) GetConversation(ctx context.Context, userID string) ([]chatbot.Message, error) {
	raws, err := repo.client.LRange(ctx, conversationKey(userID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "reading conversation")
	}

	msgs := make([]chatbot.Message, 0, len(raws))
	for _, raw := range raws {
		var msg chatbot.Message
		if err = json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, errors.Wrap(err, "unmarshalling conversation message")
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
