package chatbot

import (
	"context"
	"strings"
)

// Responder produces a reply to a visitor's question. Implementations may
// call out to an external assistant; the in-tree one answers from a fixed
// FAQ so the endpoint works without third-party credentials.
type Responder interface {
	Respond(ctx context.Context, question string) (string, error)
}

const defaultReply = "I'm not sure about that one. Please email info@saleaf.org " +
	"and the team will get back to you."

// faqEntry maps trigger keywords to a canned answer; the first entry whose
// keywords all appear in the question wins.
type faqEntry struct {
	keywords []string
	answer   string
}

var faq = []faqEntry{
	{
		keywords: []string{"bursary", "apply"},
		answer: "You can apply for a bursary from the Bursary Application section " +
			"once you are signed in with a student account. The form has seven steps " +
			"and you can save and come back at any point before submitting.",
	},
	{
		keywords: []string{"bursary", "deadline"},
		answer: "Bursary applications for the upcoming academic year close at the end " +
			"of September. Late applications are not considered.",
	},
	{
		keywords: []string{"donate"},
		answer: "Thank you for considering a donation! You can donate online from the " +
			"Donate section, or make a manual EFT and upload your proof of payment. " +
			"All donations qualify for a Section 18A certificate.",
	},
	{
		keywords: []string{"section", "18a"},
		answer: "SALEAF is a registered public benefit organisation; every verified " +
			"donation receives a Section 18A receipt reference for tax purposes.",
	},
	{
		keywords: []string{"event"},
		answer: "Upcoming events are listed in the Events section. Register for an " +
			"event to receive a QR code ticket you can present at the door.",
	},
	{
		keywords: []string{"contact"},
		answer:   "You can reach the SALEAF team at info@saleaf.org.",
	},
}

// FAQResponder is the deterministic, offline Responder.
type FAQResponder struct{}

var _ Responder = (*FAQResponder)(nil)

func NewFAQResponder() *FAQResponder { return &FAQResponder{} }

func (r *FAQResponder) Respond(ctx context.Context, question string) (string, error) {
	q := strings.ToLower(question)
	for _, entry := range faq {
		if matchesAll(q, entry.keywords) {
			return entry.answer, nil
		}
	}
	return defaultReply, nil
}

func matchesAll(q string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(q, kw) {
			return false
		}
	}
	return true
}
