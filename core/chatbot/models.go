package chatbot

import (
	"time"

	"github.com/charbel-francis/saleaf/core"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"` // UTC
}

// Question is a single prompt to the assistant.
type Question struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (q *Question) Validate() error {
	q.Text = core.CleanString(q.Text)
	return core.Validate.Struct(q)
}

// Answer pairs the assistant's reply with the question that produced it.
type Answer struct {
	Question string `json:"question"`
	Reply    string `json:"reply"`
}
