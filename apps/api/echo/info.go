package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/charbel-francis/saleaf/core/info"
)

type infoApi struct {
	svc *info.Service
}

func registerInfoAPI(g *echo.Group, svc *info.Service) {
	api := infoApi{svc: svc}

	g.GET("/BankAccountInfo", api.bankAccount)
	g.GET("/Director/get-all-director", api.directors)
}

func (api *infoApi) bankAccount(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.BankAccount())
}

func (api *infoApi) directors(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Directors())
}
