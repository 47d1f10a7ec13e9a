package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/application"
	"github.com/charbel-francis/saleaf/core/user"
)

// applicationFormField is the multipart field holding the application JSON;
// supporting documents ride along as file fields named after their slot.
const applicationFormField = "application"

var errMissingApplication = errors.New("missing application data")

type applicationApi struct {
	svc     *application.Service
	userSvc *user.Service
}

func registerApplicationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *application.Service, userSvc *user.Service) {
	api := applicationApi{svc: svc, userSvc: userSvc}

	ag := g.Group("/BursaryApplication", jwt)
	ag.POST("", api.submit)
	ag.GET("", api.query, adminMiddleware())
	ag.GET("/mine", api.mine)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id/status", api.updateStatus, adminMiddleware())
}

// submit accepts the whole application in one multipart request: a JSON
// part with the form data plus one file part per supporting document.
func (api *applicationApi) submit(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	raw := ctx.FormValue(applicationFormField)
	if raw == "" {
		return core.NewValidationError(errMissingApplication,
			core.FieldError{Field: applicationFormField, Error: errMissingApplication.Error()})
	}
	var initial application.Draft
	if err := json.Unmarshal([]byte(raw), &initial); err != nil {
		return core.NewValidationError(errors.Wrap(err, "decoding application"),
			core.FieldError{Field: applicationFormField, Error: "invalid JSON"})
	}
	draft := application.NewDraft(&initial)

	for _, field := range application.DocumentFields {
		up, err := bindUpload(ctx, string(field))
		if err != nil {
			return err
		}
		if up == nil {
			continue
		}
		if err = draft.AttachDocument(field, *up); err != nil {
			return err
		}
	}

	applicant := application.Applicant{ID: ctxUsr.ID, Name: ctxUsr.Name, Email: ctxUsr.Email}
	app, err := api.svc.Submit(ctx.Request().Context(), applicant, draft)
	if err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			return err
		}
		return errors.Wrap(err, "submitting application")
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *applicationApi) query(ctx echo.Context) error {
	filter := new(application.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []application.Application{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	apps, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *applicationApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	apps, err := api.svc.GetByApplicant(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

// retrieve serves an application to its owner or to an admin; anyone else
// gets a 404 so application IDs leak nothing.
func (api *applicationApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	app, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == application.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding application")
	}
	if app.ApplicantID != claims.Subject && !claims.IsAdmin {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *applicationApi) updateStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data application.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	app, err := api.svc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == application.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating application status")
	}
	return ctx.JSON(http.StatusOK, app)
}
