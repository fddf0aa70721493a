package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/darasa-lms/darasa/apps/api/echo"
	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/course"
	"github.com/darasa-lms/darasa/core/progress"
	logsvc "github.com/darasa-lms/darasa/services/logger"
	"github.com/darasa-lms/darasa/storage/database"
	dummydb "github.com/darasa-lms/darasa/storage/database/dummy"
	sqlxrepos "github.com/darasa-lms/darasa/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))

	if err := run(conf, logger); err != nil {
		logger.Fatal("running app", err)
	}
}

func run(conf *core.Config, logger core.Logger) error {
	expvar.NewString("build").Set(conf.Build)
	logger.Info("Application initializing", map[string]interface{}{"version": conf.Build})
	defer logger.Info("Application stopped")

	// set up repositories
	courseRepo, progressRepo, cleanup, err := setUpRepos(conf)
	if err != nil {
		return errors.Wrap(err, "setting up repositories")
	}
	defer cleanup()

	// set up services
	courseSvc := course.NewService(courseRepo)
	progressSvc := progress.NewService(courseRepo, progressRepo)

	// set up validation
	translator := ut.New(en.New()).GetFallback()
	validate := validator.New()
	core.InitValidators(validate, translator)

	// start debug server; not concerned with shutting this down when the
	// application is shutdown
	logger.Info("Debug server listening on " + conf.Server.DebugHost)
	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error("Debug server closed", err)
		}
	}()

	// start API server
	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		CourseSvc:   courseSvc,
		ProgressSvc: progressSvc,
		Validate:    validate,
		Translator:  translator,
	})
	go app.Start()

	// await shutdown
	select {
	case err := <-app.Errors():
		return errors.Wrap(err, "server error")
	case sig := <-app.ShutdownSignal():
		logger.Info("Shutdown started", map[string]interface{}{"signal": sig.String()})
		defer logger.Info("Shutdown complete", map[string]interface{}{"signal": sig.String()})

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Shutdown(ctx); err != nil {
			_ = app.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}
	return nil
}

func setUpRepos(conf *core.Config) (course.Repository, progress.Repository, func(), error) {
	noop := func() {}

	if conf.Database.Engine == "dummy" {
		db, err := dummydb.Open()
		if err != nil {
			return nil, nil, noop, err
		}
		return dummydb.NewCourseRepository(db), dummydb.NewProgressRepository(db), noop, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, nil, noop, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, noop, err
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, nil, noop, err
	}
	return sqlxrepos.NewCourseRepository(db), sqlxrepos.NewProgressRepository(db), func() { _ = db.Close() }, nil
}
