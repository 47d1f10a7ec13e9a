package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/charbel-francis/saleaf/core/chatbot"
	"github.com/charbel-francis/saleaf/core/user"
	testutil "github.com/charbel-francis/saleaf/tests"
)

func Test_chatbotApi_ask(t *testing.T) {
	ta := setup(t)

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"text": "this field is required"}),
		},
		{
			name: "answered", wantCode: http.StatusOK,
			body:  marchallObj(t, chatbot.Question{Text: "How do I apply for a bursary?"}),
			extra: "seven steps",
		},
		{
			name: "unknown question gets the fallback", wantCode: http.StatusOK,
			body:  marchallObj(t, chatbot.Question{Text: "What is the meaning of life?"}),
			extra: "info@saleaf.org",
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/ChatBot/ask"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var ans chatbot.Answer
				if err := json.Unmarshal(rec.Body.Bytes(), &ans); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if ans.Reply == "" {
					t.Error("failed! empty reply")
				}
				if want, ok := tt.extra.(string); ok && !strings.Contains(ans.Reply, want) {
					t.Errorf("Reply = %q; want it to contain %q", ans.Reply, want)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_chatbotApi_authorizedAsk(t *testing.T) {
	ta := setup(t)

	student := testutil.CreateUser(t, ta.usrRepo, "Hero", "hero@test.za", "", []string{user.RoleStudent}, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "answered and stored", token: getToken(t, student), wantCode: http.StatusOK,
			body: marchallObj(t, chatbot.Question{Text: "Can I donate?"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/ChatBot/authorize-ask"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}

				// both sides of the exchange land in the conversation history
				conv, err := ta.chatSvc.PreviousConversation(req.Context(), student.ID)
				if err != nil {
					t.Fatalf("PreviousConversation() failed: %v", err)
				}
				if len(conv) != 2 {
					t.Fatalf("len(conv) = %d; want 2", len(conv))
				}
				if conv[0].Role != chatbot.RoleUser || conv[0].Text != "Can I donate?" {
					t.Errorf("failed! message = %+v", conv[0])
				}
				if conv[1].Role != chatbot.RoleBot || conv[1].Text == "" {
					t.Errorf("failed! message = %+v", conv[1])
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_chatbotApi_previousConversation(t *testing.T) {
	ta := setup(t)

	student := testutil.CreateUser(t, ta.usrRepo, "Hero", "hero@test.za", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, ta.usrRepo, "Lebo", "lebo@test.za", "", []string{user.RoleStudent}, true)

	// seed one exchange through the service so timestamps are realistic
	req, rec := newAuthRequest(http.MethodPost, "/api/ChatBot/authorize-ask", getToken(t, student),
		marchallObj(t, chatbot.Question{Text: "Where do I find your events?"}))
	ta.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed to seed conversation! code = %v; body %s", rec.Code, rec.Body.String())
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Empty conversation", token: getToken(t, other), wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "Own conversation", token: getToken(t, student), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/ChatBot/get-previous-conversation"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.name == "Own conversation" {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var conv []chatbot.Message
				if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if len(conv) != 2 {
					t.Fatalf("len(conv) = %d; want 2", len(conv))
				}
				if conv[0].Role != chatbot.RoleUser || conv[1].Role != chatbot.RoleBot {
					t.Errorf("failed! conversation = %+v", conv)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
