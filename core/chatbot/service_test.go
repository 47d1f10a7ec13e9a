package chatbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	convs map[string][]Message
}

func newRepoMock() *repoMock {
	return &repoMock{convs: make(map[string][]Message)}
}

func (r *repoMock) AppendMessages(ctx context.Context, userID string, msgs ...Message) error {
	r.convs[userID] = append(r.convs[userID], msgs...)
	return nil
}

func (r *repoMock) GetConversation(ctx context.Context, userID string) ([]Message, error) {
	return r.convs[userID], nil
}

func Test_FAQResponder(t *testing.T) {
	ctx := context.Background()
	r := NewFAQResponder()

	tests := []struct {
		name     string
		question string
		contains string
	}{
		{"bursary application", "How do I apply for a bursary?", "seven steps"},
		{"donations", "Can I donate to SALEAF?", "Section 18A"},
		{"events", "Where do I find your events?", "QR code"},
		{"case insensitive", "HOW DO I APPLY FOR A BURSARY?", "seven steps"},
		{"unknown", "What is the meaning of life?", "info@saleaf.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := r.Respond(ctx, tt.question)
			require.NoError(t, err)
			assert.Contains(t, reply, tt.contains)
		})
	}
}

func Test_Service_Ask(t *testing.T) {
	ctx := context.Background()
	repo := newRepoMock()
	svc := NewService(repo, NewFAQResponder())

	q := Question{Text: "  How do I apply for a bursary?  "}
	require.NoError(t, q.Validate())

	ans, err := svc.Ask(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "How do I apply for a bursary?", ans.Question)
	assert.NotEmpty(t, ans.Reply)
	assert.Empty(t, repo.convs, "anonymous questions are never stored")
}

func Test_Service_AuthorizedAsk(t *testing.T) {
	ctx := context.Background()
	repo := newRepoMock()
	svc := NewService(repo, NewFAQResponder())

	_, err := svc.AuthorizedAsk(ctx, "stu-1", Question{Text: "Can I donate?"})
	require.NoError(t, err)
	_, err = svc.AuthorizedAsk(ctx, "stu-1", Question{Text: "Where do I find your events?"})
	require.NoError(t, err)

	conv, err := svc.PreviousConversation(ctx, "stu-1")
	require.NoError(t, err)
	require.Len(t, conv, 4, "each exchange stores the question and the reply")
	assert.Equal(t, RoleUser, conv[0].Role)
	assert.Equal(t, RoleBot, conv[1].Role)
	assert.Equal(t, "Can I donate?", conv[0].Text)

	other, err := svc.PreviousConversation(ctx, "stu-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func Test_Question_Validate(t *testing.T) {
	q := Question{Text: "   "}
	assert.Error(t, q.Validate())
}
