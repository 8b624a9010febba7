package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/idadental/registration/pkg/logger"
	"github.com/idadental/registration/pkg/validator"
)

// ErrorPageParams contains data for rendering error pages.
type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorToastParams contains data for rendering error toasts.
type ErrorToastParams struct {
	Message   string
	Type      string // "error", "warning" or "info"
	RequestID string
}

// ErrorHandlerConfig configures the default error handler.
type ErrorHandlerConfig struct {
	// ErrorPage renders a full page for regular HTTP requests.
	ErrorPage func(ErrorPageParams) templ.Component

	// ErrorToast renders a toast for DataStar requests.
	ErrorToast func(ErrorToastParams) templ.Component

	// ToastTarget defaults to "#toasts".
	ToastTarget string

	// ToastMode defaults to PatchAppend.
	ToastMode datastar.ElementPatchMode
}

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	StatusCode int
	Message    string
	Type       string
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// ClassifyError maps err to a status code, a user-facing message and a log level.
// Validation errors become 422 with the first message, HTTPError keeps its code.
func ClassifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    "An error occurred processing your request",
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Key
	}

	if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
		info.StatusCode = http.StatusUnprocessableEntity
		info.Message = verrs[0].Message
	}

	switch {
	case isClientError(info.StatusCode):
		info.Type = "warning"
		info.LogLevel = slog.LevelWarn
	default:
		info.Type = "error"
		info.LogLevel = slog.LevelError
	}
	return info
}

// NewErrorHandler returns an error handler that renders a page for regular
// requests and a toast patch for DataStar requests.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toasts"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchAppend
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		requestID := middleware.GetReqID(r.Context())
		info := ClassifyError(err)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(requestID),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("is_datastar", IsDataStar(r)),
		)

		if IsDataStar(r) {
			renderToast(ctx, log, cfg, info, requestID)
			return
		}
		renderPage(ctx, log, cfg, info, requestID)
	}
}

func renderToast(ctx Context, log *slog.Logger, cfg ErrorHandlerConfig, info ErrorInfo, requestID string) {
	if cfg.ErrorToast == nil {
		log.Warn("no error toast component configured", logger.RequestID(requestID))
		return
	}

	resp := Templ(
		cfg.ErrorToast(ErrorToastParams{Message: info.Message, Type: info.Type, RequestID: requestID}),
		WithTarget(cfg.ToastTarget),
		WithPatchMode(cfg.ToastMode),
	)
	if err := resp.Render(ctx.ResponseWriter(), ctx.Request()); err != nil {
		log.Error("failed to render error toast",
			logger.RequestID(requestID),
			logger.Error(err),
		)
	}
}

func renderPage(ctx Context, log *slog.Logger, cfg ErrorHandlerConfig, info ErrorInfo, requestID string) {
	if cfg.ErrorPage == nil {
		http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
		return
	}

	resp := TemplWithStatus(info.StatusCode, cfg.ErrorPage(ErrorPageParams{
		Error:      info.Message,
		StatusCode: info.StatusCode,
		RequestID:  requestID,
		RetryURL:   ctx.Request().URL.Path,
	}))
	if err := resp.Render(ctx.ResponseWriter(), ctx.Request()); err != nil {
		log.Error("failed to render error page",
			logger.RequestID(requestID),
			logger.Error(err),
		)
	}
}
