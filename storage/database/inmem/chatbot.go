package inmemdb

import (
	"context"

	"github.com/charbel-francis/saleaf/core/chatbot"
)

type chatbotRepository struct {
	db *DB
}

var _ chatbot.Repository = (*chatbotRepository)(nil) // interface compliance check

func NewChatbotRepository(db *DB) *chatbotRepository {
	return &chatbotRepository{db: db}
}

func (repo *chatbotRepository) AppendMessages(ctx context.Context, userID string, msgs ...chatbot.Message) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.conversations[userID] = append(repo.db.conversations[userID], msgs...)
	return nil
}

func (repo *chatbotRepository) GetConversation(ctx context.Context, userID string) ([]chatbot.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	conv := repo.db.conversations[userID]
	out := make([]chatbot.Message, len(conv))
	copy(out, conv)
	return out, nil
}
