package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the completion provider name.
	FieldProvider = "completion_provider"
	// FieldModel is the structured log field key for the completion model identifier.
	FieldModel = "completion_model"
	// FieldSource is the structured log field key for the profile source.
	FieldSource = "profile_source"
)

// CommonFields returns the fields that identify the completion backend and the profile source of a run.
// Blank values are left out.
func CommonFields(provider, model, source string) []zap.Field {
	pairs := [...][2]string{
		{FieldProvider, provider},
		{FieldModel, model},
		{FieldSource, source},
	}

	fields := make([]zap.Field, 0, len(pairs))
	for _, p := range pairs {
		if value := strings.TrimSpace(p[1]); value != "" {
			fields = append(fields, zap.String(p[0], value))
		}
	}

	return fields
}

// WithCommonFields attaches the common run fields to logger. A nil logger becomes a no-op one.
func WithCommonFields(logger *zap.Logger, provider, model, source string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := CommonFields(provider, model, source)
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
