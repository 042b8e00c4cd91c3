package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trezcool/edutrack/apps/api/echo"
	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/predict"
	"github.com/trezcool/edutrack/core/record"
	"github.com/trezcool/edutrack/core/school"
	"github.com/trezcool/edutrack/core/teacher"
	emailsvc "github.com/trezcool/edutrack/services/email"
	logsvc "github.com/trezcool/edutrack/services/logger"
	"github.com/trezcool/edutrack/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig(".")
	if err != nil {
		log.Fatalf("loading config: %+v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	classifier := predict.NewClassifier(predict.NewFileArtifactStore(conf.Model.Path), logger)

	teacherSvc := teacher.NewService(conf, database.NewTeacherRepository(db), mailSvc, logger)
	schoolSvc := school.NewService(database.NewSchoolRepository(db))
	recordSvc := record.NewService(database.NewRecordRepository(db), classifier, mailSvc, logger)

	validate, translator := core.NewValidator()

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{
			Addr:       conf.Server.Addr,
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			TeacherSvc: teacherSvc,
			SchoolSvc:  schoolSvc,
			RecordSvc:  recordSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	stop := func(reason string) {
		logger.Info(fmt.Sprintf("%s: Start shutdown...", reason))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		stop(sig.String())

	case <-server.ShutdownSignal():
		stop("integrity issue")
	}
}
