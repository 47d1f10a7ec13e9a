package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core/chatbot"
)

type chatbotApi struct {
	svc *chatbot.Service
}

func registerChatbotAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *chatbot.Service) {
	api := chatbotApi{svc: svc}

	cg := g.Group("/ChatBot")
	cg.POST("/ask", api.ask)

	ag := cg.Group("", jwt)
	ag.POST("/authorize-ask", api.authorizedAsk)
	ag.GET("/get-previous-conversation", api.previousConversation)
}

// ask answers anonymous visitors; nothing is stored.
func (api *chatbotApi) ask(ctx echo.Context) error {
	var q chatbot.Question
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to Question")
	}
	if err := q.Validate(); err != nil {
		return err
	}

	ans, err := api.svc.Ask(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "asking chatbot")
	}
	return ctx.JSON(http.StatusOK, ans)
}

func (api *chatbotApi) authorizedAsk(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var q chatbot.Question
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to Question")
	}
	if err := q.Validate(); err != nil {
		return err
	}

	ans, err := api.svc.AuthorizedAsk(ctx.Request().Context(), claims.Subject, q)
	if err != nil {
		return errors.Wrap(err, "asking chatbot")
	}
	return ctx.JSON(http.StatusOK, ans)
}

func (api *chatbotApi) previousConversation(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	msgs, err := api.svc.PreviousConversation(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting conversation")
	}
	if msgs == nil {
		msgs = []chatbot.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}
