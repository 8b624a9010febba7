// Package logger builds *slog.Logger values with functional options and
// injects request-scoped attributes through a handler decorator.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.Service),
//		logger.WithContextExtractors(logger.RequestIDExtractor),
//	)
//	log.InfoContext(ctx, "registration submitted",
//		logger.SubjectID(profile.SubjectID),
//		logger.AuthMethod(profile.AuthMethod.String()),
//	)
//
// Attribute helpers (Error, SubjectID, AuthMethod, State and friends) keep
// key names consistent across packages. Helpers return an empty slog.Attr for
// empty input, which slog drops.
package logger
