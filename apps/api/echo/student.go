package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/student"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/StudentProfile", jwt)
	sg.POST("/create-profile", api.create)
	sg.GET("/get-logged-user-profile", api.retrieve)
	sg.PUT("/update-profile", api.update)
	sg.GET("/get-profile-image", api.retrieveImage)
}

func (api *studentApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data student.NewProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	if data.Image, err = bindUpload(ctx, "image"); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prof, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == student.ErrProfileExists {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "creating profile")
	}
	return ctx.JSON(http.StatusCreated, prof)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	prof, err := api.svc.GetByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *studentApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data student.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if data.Image, err = bindUpload(ctx, "image"); err != nil {
		return err
	}

	prof, err := api.svc.Update(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *studentApi) retrieveImage(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	prof, err := api.svc.GetByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding profile")
	}
	if !prof.HasImage() {
		return errHttpNotFound
	}
	return ctx.Blob(http.StatusOK, prof.ImageContentType, prof.Image)
}
