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
	"os/signal"
	"syscall"

	echoapi "github.com/codequest-edu/codequest/apps/api/echo"
	"github.com/codequest-edu/codequest/core"
	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/progress"
	"github.com/codequest-edu/codequest/core/user"
	appfs "github.com/codequest-edu/codequest/fs"
	emailsvc "github.com/codequest-edu/codequest/services/email"
	logsvc "github.com/codequest-edu/codequest/services/logger"
	"github.com/codequest-edu/codequest/storage/database"
	sqlxrepos "github.com/codequest-edu/codequest/storage/database/sqlx"
)

// TODO:
// - APM/Tracing
// - rate limiting on auth endpoints
func main() {
	conf := core.NewConfig()
	core.TemplateFS = appfs.FS

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)
	currSvc := curriculum.NewService(sqlxrepos.NewCurriculumRepository(db))
	progSvc := progress.NewService(
		sqlxrepos.NewAttemptRepository(db),
		currSvc,
		progress.ExactMatchGrader{},
	)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// start Debug service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// start API server
	server := echoapi.NewServer(
		&echoapi.Options{
			Address:       conf.ServerAddress(),
			UserSvc:       usrSvc,
			CurriculumSvc: currSvc,
			ProgressSvc:   progSvc,
			Logger:        logger,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case <-server.Shutdown():
		logger.Error("integrity issue detected: shutting down")
		stop(server, conf, logger)

	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		stop(server, conf, logger)
	}
}

// stop gives outstanding requests a deadline for completion.
func stop(server echoapi.Server, conf *core.Config, logger core.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
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
