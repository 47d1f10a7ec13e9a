package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/application"
	"github.com/charbel-francis/saleaf/core/chatbot"
	"github.com/charbel-francis/saleaf/core/donation"
	"github.com/charbel-francis/saleaf/core/event"
	"github.com/charbel-francis/saleaf/core/info"
	"github.com/charbel-francis/saleaf/core/student"
	"github.com/charbel-francis/saleaf/core/user"
)

type (
	ServerDeps struct {
		Logger core.Logger

		UserSvc        *user.Service
		StudentSvc     *student.Service
		ApplicationSvc *application.Service
		EventSvc       *event.Service
		DonationSvc    *donation.Service
		ChatbotSvc     *chatbot.Service
		InfoSvc        *info.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !core.Conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(api, jwt, s.deps.UserSvc)
	registerStudentAPI(api, jwt, s.deps.StudentSvc)
	registerApplicationAPI(api, jwt, s.deps.ApplicationSvc, s.deps.UserSvc)
	registerEventAPI(api, jwt, s.deps.EventSvc)
	registerDonationAPI(api, jwt, s.deps.DonationSvc, s.deps.UserSvc)
	registerChatbotAPI(api, jwt, s.deps.ChatbotSvc)
	registerInfoAPI(api, s.deps.InfoSvc)
}

func (s *Server) Start() {
	if err := s.app.Start(core.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errs }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown requests a graceful termination, as if SIGTERM was received.
func (s *Server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the SALEAF API!")
}
