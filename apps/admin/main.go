package main

import (
	"log"
	"os"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/predict"
	"github.com/trezcool/edutrack/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig(".")
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		conf:        conf,
		teacherRepo: database.NewTeacherRepository(db),
		modelStore:  predict.NewFileArtifactStore(conf.Model.Path),
		dbPing:      db.Ping,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
