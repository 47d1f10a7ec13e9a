package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/donation"
	"github.com/charbel-francis/saleaf/core/user"
)

type donationApi struct {
	svc     *donation.Service
	userSvc *user.Service
}

func registerDonationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *donation.Service, userSvc *user.Service) {
	api := donationApi{svc: svc, userSvc: userSvc}

	dg := g.Group("/Donation", jwt)
	dg.POST("", api.create)
	dg.GET("", api.query, adminMiddleware())
	dg.GET("/mine", api.mine)
	dg.POST("/manual-payment-donation", api.createManual)
	dg.PUT("/:id/verify", api.verify, adminMiddleware())

	pg := g.Group("/ManualPaymentDoc", jwt)
	pg.POST("/upload-manual-payment", api.uploadProof)
}

// create records a gateway donation; it comes back verified with its
// Section 18A receipt reference.
func (api *donationApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data donation.NewDonation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDonation")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	don, err := api.svc.Create(ctx.Request().Context(), api.donorID(claims, data), data)
	if err != nil {
		return errors.Wrap(err, "creating donation")
	}
	return ctx.JSON(http.StatusCreated, don)
}

func (api *donationApi) createManual(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data donation.NewDonation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDonation")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	don, err := api.svc.CreateManual(ctx.Request().Context(), api.donorID(claims, data), data)
	if err != nil {
		return errors.Wrap(err, "creating manual donation")
	}
	return ctx.JSON(http.StatusCreated, don)
}

// uploadProof attaches the proof of payment to a pending manual donation.
func (api *donationApi) uploadProof(ctx echo.Context) error {
	donationID := ctx.FormValue("donationId")
	if donationID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "donationId", Error: "required"})
	}
	up, err := bindUpload(ctx, "document")
	if err != nil {
		return err
	}
	if up == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "document", Error: "required"})
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	don, err := api.svc.GetByID(ctx.Request().Context(), donationID)
	if err != nil {
		if errors.Cause(err) == donation.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding donation")
	}
	// only the donor (or an admin chasing paperwork) may attach proof
	if don.DonorID != claims.Subject && !claims.IsAdmin {
		return errHttpNotFound
	}

	don, err = api.svc.AttachProof(ctx.Request().Context(), donationID, *up)
	if err != nil {
		if errors.Cause(err) == donation.ErrAlreadyVerified {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "attaching proof of payment")
	}
	return ctx.JSON(http.StatusOK, don)
}

func (api *donationApi) verify(ctx echo.Context) error {
	don, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == donation.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding donation")
	}

	var donorName, donorEmail string
	if don.DonorID != "" && !don.IsAnonymous {
		if donor, err := api.userSvc.GetByID(ctx.Request().Context(), don.DonorID); err == nil {
			donorName, donorEmail = donor.Name, donor.Email
		}
	}

	don, err = api.svc.Verify(ctx.Request().Context(), don.ID, donorEmail, donorName)
	if err != nil {
		if errors.Cause(err) == donation.ErrAlreadyVerified {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "verifying donation")
	}
	return ctx.JSON(http.StatusOK, don)
}

func (api *donationApi) query(ctx echo.Context) error {
	filter := new(donation.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []donation.Donation{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	dons, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying donations")
	}
	if dons == nil {
		dons = []donation.Donation{}
	}
	return ctx.JSON(http.StatusOK, dons)
}

func (api *donationApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	dons, err := api.svc.GetByDonor(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying donations")
	}
	if dons == nil {
		dons = []donation.Donation{}
	}
	return ctx.JSON(http.StatusOK, dons)
}

// donorID resolves who a donation is recorded against; anonymous donations
// are stored without a donor.
func (api *donationApi) donorID(claims Claims, nd donation.NewDonation) string {
	if nd.IsAnonymous {
		return ""
	}
	return claims.Subject
}
