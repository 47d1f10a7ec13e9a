// Package inmemdb provides mutex-guarded in-memory repositories mirroring the
// postgres ones, for tests and local development without a database.
package inmemdb

import (
	"sync"

	"github.com/charbel-francis/saleaf/core/application"
	"github.com/charbel-francis/saleaf/core/chatbot"
	"github.com/charbel-francis/saleaf/core/donation"
	"github.com/charbel-francis/saleaf/core/event"
	"github.com/charbel-francis/saleaf/core/student"
	"github.com/charbel-francis/saleaf/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users         map[string]*user.User
	profiles      map[string]*student.Profile      // keyed by profile ID
	applications  map[string]*application.Application
	events        map[string]*event.Event
	registrations map[string]*event.Registration
	donations     map[string]*donation.Donation
	conversations map[string][]chatbot.Message // keyed by user ID
}

func NewDB() *DB {
	return &DB{
		users:         make(map[string]*user.User),
		profiles:      make(map[string]*student.Profile),
		applications:  make(map[string]*application.Application),
		events:        make(map[string]*event.Event),
		registrations: make(map[string]*event.Registration),
		donations:     make(map[string]*donation.Donation),
		conversations: make(map[string][]chatbot.Message),
	}
}
