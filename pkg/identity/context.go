package identity

import (
	"context"
	"log/slog"

	"github.com/idadental/registration/pkg/logger"
)

type profileContextKey struct{}

// WithProfile stores a ready profile in ctx.
func WithProfile(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileContextKey{}, p)
}

// ProfileFromContext returns the profile stored by WithProfile.
func ProfileFromContext(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(profileContextKey{}).(Profile)
	return p, ok
}

// SubjectExtractor adds the subject of the profile in ctx to log records.
// It matches logger.ContextExtractor.
func SubjectExtractor(ctx context.Context) (slog.Attr, bool) {
	p, ok := ProfileFromContext(ctx)
	if !ok || p.SubjectID == "" {
		return slog.Attr{}, false
	}
	return logger.SubjectID(p.SubjectID), true
}
