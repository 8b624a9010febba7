// Package httpserver runs the application's http.Handler with graceful
// shutdown and provides liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, log)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
