package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	echoapi "github.com/charbel-francis/saleaf/apps/api/echo"
	"github.com/charbel-francis/saleaf/core/event"
	"github.com/charbel-francis/saleaf/core/user"
	testutil "github.com/charbel-francis/saleaf/tests"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func createEvent(t *testing.T, ta *testApp, title string, start, end time.Time, capacity int, published bool) event.Event {
	t.Helper()

	evt, err := ta.evtSvc.Create(context.Background(), event.NewEvent{
		Title:       title,
		Description: title + " hosted by SALEAF",
		Location:    "Johannesburg",
		StartDate:   start,
		EndDate:     end,
		Capacity:    capacity,
		IsPublished: published,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return evt
}

func Test_eventApi_latest(t *testing.T) {
	ta := setup(t)

	now := time.Now().UTC()
	createEvent(t, ta, "Golf Day", now.Add(24*time.Hour), now.Add(30*time.Hour), 0, true)
	gala := createEvent(t, ta, "Annual Gala", now.Add(48*time.Hour), now.Add(52*time.Hour), 0, true)
	walk := createEvent(t, ta, "Charity Walk", now.Add(72*time.Hour), now.Add(76*time.Hour), 0, true)
	braai := createEvent(t, ta, "Alumni Braai", now.Add(96*time.Hour), now.Add(100*time.Hour), 0, true)
	createEvent(t, ta, "Planning Session", now.Add(120*time.Hour), now.Add(124*time.Hour), 0, false) // draft

	req, rec := newRequest(http.MethodGet, "/api/Event/get-three-latest-events")
	ta.server.ServeHTTP(rec, req)

	tt := httpTest{
		name:     "three latest published events",
		wantCode: http.StatusOK,
		wantData: marchallList(t, braai, walk, gala),
	}
	checkCodeAndData(t, tt, rec)
}

func Test_eventApi_queryAll(t *testing.T) {
	ta := setup(t)

	now := time.Now().UTC()
	past := createEvent(t, ta, "Last Year's Gala", now.Add(-48*time.Hour), now.Add(-44*time.Hour), 0, true)
	upcoming := createEvent(t, ta, "Golf Day", now.Add(24*time.Hour), now.Add(30*time.Hour), 0, true)
	createEvent(t, ta, "Planning Session", now.Add(48*time.Hour), now.Add(52*time.Hour), 0, false) // draft

	req, rec := newRequest(http.MethodGet, "/api/Event/get-all-events")
	ta.server.ServeHTTP(rec, req)

	tt := httpTest{
		name:     "split into upcoming and past",
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echoapi.EventListResponse{
			Upcoming: []event.Event{upcoming},
			Past:     []event.Event{past},
		}),
	}
	checkCodeAndData(t, tt, rec)
}

func Test_eventApi_create(t *testing.T) {
	ta := setup(t)

	student := testutil.CreateUser(t, ta.usrRepo, "Hero", "hero@test.za", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin@test.za", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	now := time.Now().UTC().Truncate(time.Second)
	reqMsg := "this field is required"

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "required fields", token: adminToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": reqMsg, "location": reqMsg, "start_date": reqMsg}),
		},
		{
			name: "end date precedes start date", token: adminToken, wantCode: http.StatusBadRequest,
			body: marchallObj(t, event.NewEvent{
				Title: "Golf Day", Location: "Johannesburg",
				StartDate: now.Add(48 * time.Hour), EndDate: now.Add(24 * time.Hour),
			}),
			wantData: marchallObj(t, map[string]string{"end_date": "end date cannot precede the start date"}),
		},
		{
			name: "negative ticket price", token: adminToken, wantCode: http.StatusBadRequest,
			body: marchallObj(t, event.NewEvent{
				Title: "Golf Day", Location: "Johannesburg",
				StartDate: now.Add(24 * time.Hour), TicketPrice: decimal.NewFromInt(-50),
			}),
			wantData: marchallObj(t, map[string]string{"ticket_price": "ticket price cannot be negative"}),
		},
		{
			name: "created", token: adminToken, wantCode: http.StatusCreated,
			body: marchallObj(t, event.NewEvent{
				Title: "Golf Day", Location: "Johannesburg",
				StartDate: now.Add(24 * time.Hour), EndDate: now.Add(30 * time.Hour),
				Capacity: 120, TicketPrice: decimal.NewFromInt(350), IsPublished: true,
			}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/Event"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var evt event.Event
				if err := json.Unmarshal(rec.Body.Bytes(), &evt); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if evt.ID == "" {
					t.Error("failed! empty event ID")
				}
				if evt.Title != "Golf Day" || evt.Capacity != 120 || !evt.IsPublished {
					t.Errorf("failed! event = %+v", evt)
				}
				if !evt.TicketPrice.Equal(decimal.NewFromInt(350)) {
					t.Errorf("TicketPrice = %v; want 350", evt.TicketPrice)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_query(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin@test.za", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	now := time.Now().UTC()
	gala := createEvent(t, ta, "Annual Gala", now.Add(24*time.Hour), now.Add(30*time.Hour), 0, true)
	draft := createEvent(t, ta, "Planning Session", now.Add(48*time.Hour), now.Add(52*time.Hour), 0, false)

	tests := []httpTest{
		{name: "Auth required", path: "/api/Event", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all incl. drafts", path: "/api/Event", token: adminToken, wantData: marchallList(t, gala, draft)},
		{name: "is_published=false", path: "/api/Event?is_published=false", token: adminToken, wantData: marchallList(t, draft)},
		{name: "search (unknown)", path: "/api/Event?search=lol", token: adminToken, wantData: marchallList(t)},
		{name: "search=gala", path: "/api/Event?search=gala", token: adminToken, wantData: marchallList(t, gala)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_update(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin@test.za", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	now := time.Now().UTC()
	evt := createEvent(t, ta, "Annual Gala", now.Add(24*time.Hour), now.Add(30*time.Hour), 100, false)

	tests := []httpTest{
		{
			name: "Unknown ID", path: "/api/Event/lol", token: adminToken,
			body:     marchallObj(t, map[string]string{"title": "Gala Evening"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "end date precedes start date", path: "/api/Event/" + evt.ID, token: adminToken,
			body:     marchallObj(t, map[string]interface{}{"end_date": now.Add(12 * time.Hour)}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"end_date": "end date cannot precede the start date"}),
		},
		{
			name: "updated", path: "/api/Event/" + evt.ID, token: adminToken,
			body:     marchallObj(t, map[string]interface{}{"title": "Gala Evening", "is_published": true}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var updated event.Event
				if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if updated.Title != "Gala Evening" {
					t.Errorf("Title = %q; want %q", updated.Title, "Gala Evening")
				}
				if !updated.IsPublished {
					t.Error("IsPublished = false; want true")
				}
				// untouched fields keep their original values
				if updated.Capacity != evt.Capacity || updated.Location != evt.Location {
					t.Errorf("failed! event = %+v", updated)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_register(t *testing.T) {
	ta := setup(t)

	student := testutil.CreateUser(t, ta.usrRepo, "Hero", "hero@test.za", "", []string{user.RoleStudent}, true)
	donor := testutil.CreateUser(t, ta.usrRepo, "Donor", "donor@test.za", "", []string{user.RoleDonor}, true)
	studentToken := getToken(t, student)

	now := time.Now().UTC()
	gala := createEvent(t, ta, "Annual Gala", now.Add(24*time.Hour), now.Add(30*time.Hour), 0, true)
	ended := createEvent(t, ta, "Last Year's Gala", now.Add(-48*time.Hour), now.Add(-44*time.Hour), 0, true)
	tiny := createEvent(t, ta, "Boardroom Briefing", now.Add(24*time.Hour), now.Add(26*time.Hour), 2, true)

	// the donor takes both seats of the tiny event
	if _, err := ta.evtSvc.Register(context.Background(), donor.ID, event.NewRegistration{EventID: tiny.ID, Participants: 2}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: studentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"event_id": "this field is required"}),
		},
		{
			name: "Unknown event", token: studentToken, wantCode: http.StatusNotFound,
			body:     marchallObj(t, event.NewRegistration{EventID: "lol"}),
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Event ended", token: studentToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, event.NewRegistration{EventID: ended.ID}),
			wantData: marchallObj(t, httpErr{Error: "event has already ended"}),
		},
		{
			name: "Event full", token: studentToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, event.NewRegistration{EventID: tiny.ID}),
			wantData: marchallObj(t, httpErr{Error: "event is fully booked"}),
		},
		{
			name: "Registered", token: studentToken, wantCode: http.StatusCreated,
			body: marchallObj(t, event.NewRegistration{EventID: gala.ID}),
		},
		{
			name: "Already registered", token: studentToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, event.NewRegistration{EventID: gala.ID}),
			wantData: marchallObj(t, httpErr{Error: "already registered for this event"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/EventRegistration"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var reg event.Registration
				if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if reg.EventID != gala.ID || reg.UserID != student.ID {
					t.Errorf("failed! registration = %+v", reg)
				}
				if reg.Participants != 1 {
					t.Errorf("Participants = %d; want default 1", reg.Participants)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_myRegistrations(t *testing.T) {
	ta := setup(t)

	student := testutil.CreateUser(t, ta.usrRepo, "Hero", "hero@test.za", "", []string{user.RoleStudent}, true)
	donor := testutil.CreateUser(t, ta.usrRepo, "Donor", "donor@test.za", "", []string{user.RoleDonor}, true)

	now := time.Now().UTC()
	gala := createEvent(t, ta, "Annual Gala", now.Add(24*time.Hour), now.Add(30*time.Hour), 0, true)

	reg, err := ta.evtSvc.Register(context.Background(), student.ID, event.NewRegistration{EventID: gala.ID, Participants: 2})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Own registrations", token: getToken(t, student), wantCode: http.StatusOK, wantData: marchallList(t, reg)},
		{name: "No registrations", token: getToken(t, donor), wantCode: http.StatusOK, wantData: marchallList(t)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/EventRegistration/get-logged-register-event"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_ticketQR(t *testing.T) {
	ta := setup(t)

	student := testutil.CreateUser(t, ta.usrRepo, "Hero", "hero@test.za", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	now := time.Now().UTC()
	gala := createEvent(t, ta, "Annual Gala", now.Add(24*time.Hour), now.Add(30*time.Hour), 0, true)

	if _, err := ta.evtSvc.Register(context.Background(), student.ID, event.NewRegistration{EventID: gala.ID}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", path: "/api/EventRegistration/generate-qr-code?eventId=" + gala.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "eventId required", path: "/api/EventRegistration/generate-qr-code", token: studentToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"eventId": "required"}),
		},
		{
			name: "Not registered", path: "/api/EventRegistration/generate-qr-code?eventId=lol", token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{name: "Ticket served", path: "/api/EventRegistration/generate-qr-code?eventId=" + gala.ID, token: studentToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
					t.Errorf("Content-Type = %q; want image/png", ct)
				}
				if !bytes.HasPrefix(rec.Body.Bytes(), pngMagic) {
					t.Error("failed! body is not a PNG image")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
