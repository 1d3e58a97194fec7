package server

import (
	"schoolapi/src/alert"
	"schoolapi/src/auth"
	"schoolapi/src/errlog"
	"schoolapi/src/middleware"
	"schoolapi/src/repository"
)

// BuildDeps wires the production object graph and starts the audit log
// writer. Call after database.InitMainDB.
func BuildDeps() Deps {
	logCfg := errlog.GetConfig()

	writer := errlog.NewWriter(
		repository.NewErrorLogRepository(),
		errlog.NewFallbackLog(logCfg.FallbackPath),
		alert.NewWebhookNotifier(alert.GetConfig()),
		logCfg.QueueSize,
	)
	writer.Start()

	classifier := errlog.NewClassifier(writer, logCfg)

	return Deps{
		Tokens:      auth.NewJWT(auth.GetConfig()),
		Interceptor: middleware.NewInterceptor(classifier),
		Writer:      writer,
		Users:       repository.NewUserRepository(),
		Students:    repository.NewStudentRepository(),
	}
}
