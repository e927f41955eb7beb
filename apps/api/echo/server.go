package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/codequest-edu/codequest/core"
	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/progress"
	"github.com/codequest-edu/codequest/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		UserSvc        user.Service
		CurriculumSvc  curriculum.Service
		ProgressSvc    progress.Service
		Logger         core.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		// Shutdown receives when an integrity issue requires the app to go down.
		Shutdown() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := jwtMiddleware()

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerProfileAPI(v1, jwt, s.opts.UserSvc)
	registerCurriculumAPI(v1, jwt, s.opts.CurriculumSvc)
	registerAttemptAPI(v1, jwt, s.opts.ProgressSvc)
	registerProgressAPI(v1, jwt, s.opts.ProgressSvc)

	// TODO: swagger !!
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown requests a graceful shutdown; Shutdown() unblocks.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) Shutdown() <-chan struct{} { return s.shutdown }

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to CodeQuest API!")
}
