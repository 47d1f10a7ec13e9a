package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/charbel-francis/saleaf/apps/api/echo"
	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/application"
	"github.com/charbel-francis/saleaf/core/chatbot"
	"github.com/charbel-francis/saleaf/core/donation"
	"github.com/charbel-francis/saleaf/core/event"
	"github.com/charbel-francis/saleaf/core/info"
	"github.com/charbel-francis/saleaf/core/student"
	"github.com/charbel-francis/saleaf/core/user"
	emailsvc "github.com/charbel-francis/saleaf/services/email"
	logsvc "github.com/charbel-francis/saleaf/services/logger"
	"github.com/charbel-francis/saleaf/storage/database"
	sqlxrepos "github.com/charbel-francis/saleaf/storage/database/sqlx"
	redisstore "github.com/charbel-francis/saleaf/storage/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	sqlxDB := sqlx.NewDb(db, conf.Database.Engine)

	// set up Redis (conversation history)
	redisClient := redisstore.Open(conf)
	defer func() { _ = redisClient.Close() }()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(sqlxDB), mailSvc, conf)
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(sqlxDB))
	appSvc := application.NewService(sqlxrepos.NewApplicationRepository(sqlxDB), mailSvc, conf)
	eventSvc := event.NewService(sqlxrepos.NewEventRepository(sqlxDB))
	donationSvc := donation.NewService(sqlxrepos.NewDonationRepository(sqlxDB), mailSvc)
	chatbotSvc := chatbot.NewService(redisstore.NewChatbotRepository(redisClient), chatbot.NewFAQResponder())
	infoSvc := info.NewService()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Logger:         logger,
			UserSvc:        usrSvc,
			StudentSvc:     studentSvc,
			ApplicationSvc: appSvc,
			EventSvc:       eventSvc,
			DonationSvc:    donationSvc,
			ChatbotSvc:     chatbotSvc,
			InfoSvc:        infoSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
