package chatbot

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// for mocking
var nowFunc = time.Now

type (
	// Repository stores per-user conversation history. Anonymous questions
	// are never persisted.
	Repository interface {
		AppendMessages(ctx context.Context, userID string, msgs ...Message) error
		GetConversation(ctx context.Context, userID string) ([]Message, error)
	}

	Service struct {
		repo      Repository
		responder Responder
	}
)

func NewService(repo Repository, responder Responder) *Service {
	return &Service{
		repo:      repo,
		responder: responder,
	}
}

// Ask answers an anonymous visitor; nothing is stored.
func (svc *Service) Ask(ctx context.Context, q Question) (Answer, error) {
	reply, err := svc.responder.Respond(ctx, q.Text)
	if err != nil {
		return Answer{}, errors.Wrap(err, "responding to question")
	}
	return Answer{Question: q.Text, Reply: reply}, nil
}

// AuthorizedAsk answers a signed-in user and appends both sides of the
// exchange to their conversation history.
func (svc *Service) AuthorizedAsk(ctx context.Context, userID string, q Question) (Answer, error) {
	ans, err := svc.Ask(ctx, q)
	if err != nil {
		return Answer{}, err
	}

	now := nowFunc().UTC()
	err = svc.repo.AppendMessages(ctx,
		userID,
		Message{Role: RoleUser, Text: ans.Question, At: now},
		Message{Role: RoleBot, Text: ans.Reply, At: now},
	)
	if err != nil {
		return Answer{}, errors.Wrap(err, "appending conversation messages")
	}
	return ans, nil
}

// PreviousConversation returns the user's conversation history, oldest first.
func (svc *Service) PreviousConversation(ctx context.Context, userID string) ([]Message, error) {
	return svc.repo.GetConversation(ctx, userID)
}
