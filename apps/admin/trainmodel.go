package main

import (
	"github.com/trezcool/edutrack/core/predict"
	logsvc "github.com/trezcool/edutrack/services/logger"
)

// trainModel retrains the grade model from synthetic data and overwrites
// the persisted artifact. The API picks the new model up on next start.
func (cli *commandLine) trainModel() error {
	rbLogger := logsvc.NewRollbarLogger(logger, cli.conf)
	rbLogger.Enable(false)

	classifier := predict.NewClassifier(cli.modelStore, rbLogger)
	return classifier.Retrain()
}
