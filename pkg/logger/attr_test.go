package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idadental/registration/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Len(t, attr.Value.Group(), 2)
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, "error", logger.Error(err).Key)
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestEmptyValuesAreDropped(t *testing.T) {
	for name, attr := range map[string]slog.Attr{
		"request": logger.RequestID(""),
		"session": logger.SessionID(""),
		"subject": logger.SubjectID(""),
		"method":  logger.AuthMethod(""),
	} {
		assert.True(t, attr.Equal(slog.Attr{}), name)
	}
}

func TestDomainAttrs(t *testing.T) {
	assert.Equal(t, "sms|64f1", logger.SubjectID("sms|64f1").Value.String())
	assert.Equal(t, "phone_otp", logger.AuthMethod("phone_otp").Value.String())
	assert.Equal(t, "submitting", logger.State("submitting").Value.String())
	assert.Equal(t, "registration", logger.Component("registration").Value.String())
}

func TestSessionID_Truncates(t *testing.T) {
	assert.Equal(t, "abcdefgh", logger.SessionID("abcdefghijklmnop").Value.String())
	assert.Equal(t, "abc", logger.SessionID("abc").Value.String())
}
