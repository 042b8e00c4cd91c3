package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/record"
	"github.com/trezcool/edutrack/core/school"
	"github.com/trezcool/edutrack/core/teacher"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		TeacherSvc *teacher.Service
		SchoolSvc  *school.Service
		RecordSvc  *record.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		// ShutdownSignal fires when the app requests its own shutdown
		// (a core.ShutdownError surfaced from a handler).
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		auth     *jwtAuth
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		auth:     newJWTAuth(opts.Conf),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.auth, s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := s.auth.middleware()

	registerTeacherAPI(v1, jwt, s.auth, s.opts.TeacherSvc, s.opts.Validate, s.opts.Translator)
	registerSchoolAPI(v1, jwt, s.auth, s.opts.TeacherSvc, s.opts.SchoolSvc, s.opts.RecordSvc, s.opts.Validate)
	registerRecordAPI(v1, jwt, s.auth, s.opts.TeacherSvc, s.opts.SchoolSvc, s.opts.RecordSvc, s.opts.Validate)
	registerPortalAPI(v1, s.opts.SchoolSvc, s.opts.RecordSvc, s.opts.Validate)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduTrack API!")
}
