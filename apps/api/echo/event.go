package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/event"
)

type eventApi struct {
	svc *event.Service
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *event.Service) {
	api := eventApi{svc: svc}

	// public listings
	eg := g.Group("/Event")
	eg.GET("/get-three-latest-events", api.latest)
	eg.GET("/get-all-events", api.queryAll)

	// admin management
	mg := eg.Group("", jwt, adminMiddleware())
	mg.POST("", api.create)
	mg.GET("", api.query)
	mg.PUT("/:id", api.update)

	// registrations
	rg := g.Group("/EventRegistration", jwt)
	rg.POST("", api.register)
	rg.GET("/get-logged-register-event", api.myRegistrations)
	rg.GET("/generate-qr-code", api.ticketQR)
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) latest(ctx echo.Context) error {
	events, err := api.svc.LatestThree(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying latest events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

// queryAll lists published events for visitors, split into upcoming and past.
func (api *eventApi) queryAll(ctx echo.Context) error {
	upcoming, past, err := api.svc.Split(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, EventListResponse{Upcoming: upcoming, Past: past})
}

// query is the unfiltered admin listing, drafts included.
func (api *eventApi) query(ctx echo.Context) error {
	filter := new(event.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []event.Event{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	events, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) update(ctx echo.Context) error {
	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}

	evt, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) register(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data event.NewRegistration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistration")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reg, err := api.svc.Register(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		switch errors.Cause(err) {
		case event.ErrNotFound:
			return errHttpNotFound
		case event.ErrAlreadyRegistered, event.ErrEventFull, event.ErrEventEnded:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "registering for event")
	}
	return ctx.JSON(http.StatusCreated, reg)
}

func (api *eventApi) myRegistrations(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	regs, err := api.svc.RegistrationsFor(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying registrations")
	}
	if regs == nil {
		regs = []event.Registration{}
	}
	return ctx.JSON(http.StatusOK, regs)
}

// ticketQR serves the caller's ticket for ?eventId= as a PNG image.
func (api *eventApi) ticketQR(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	eventID := ctx.QueryParam("eventId")
	if eventID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "eventId", Error: "required"})
	}

	png, err := api.svc.TicketQR(ctx.Request().Context(), eventID, claims.Subject)
	if err != nil {
		switch errors.Cause(err) {
		case event.ErrNotFound, event.ErrRegistrationNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "generating ticket QR code")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}

type EventListResponse struct {
	Upcoming []event.Event `json:"upcoming"`
	Past     []event.Event `json:"past"`
}
