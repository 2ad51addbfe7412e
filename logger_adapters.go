// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// ZerologLogger forwards log calls to a zerolog.Logger
//
// Example:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	link, _ := tiklink.NewLink(transport, tiklink.WithLogger(tiklink.NewZerologLogger(zl)))
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// Debug logs at debug level
func (z *ZerologLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Debug(), msg, keysAndValues)
}

// Info logs at info level
func (z *ZerologLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Info(), msg, keysAndValues)
}

// Warn logs at warn level
func (z *ZerologLogger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Warn(), msg, keysAndValues)
}

// Error logs at error level
func (z *ZerologLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Error(), msg, keysAndValues)
}

func (z *ZerologLogger) emit(ctx context.Context, event *zerolog.Event, msg string, keysAndValues []any) {
	if event == nil {
		return
	}
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 < len(keysAndValues) {
			event = event.Interface(key, keysAndValues[i+1])
		} else {
			event = event.Str(key, "<MISSING>")
		}
	}
	event.Msg(msg)
}

// LogrusLogger forwards log calls to a logrus.FieldLogger
type LogrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogrusLogger wraps a logrus logger or entry
func NewLogrusLogger(logger logrus.FieldLogger) *LogrusLogger {
	return &LogrusLogger{logger: logger}
}

// Debug logs at debug level
func (l *LogrusLogger) Debug(_ context.Context, msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Debug(msg)
}

// Info logs at info level
func (l *LogrusLogger) Info(_ context.Context, msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Info(msg)
}

// Warn logs at warn level
func (l *LogrusLogger) Warn(_ context.Context, msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Warn(msg)
}

// Error logs at error level
func (l *LogrusLogger) Error(_ context.Context, msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Error(msg)
}

func (l *LogrusLogger) entry(keysAndValues []any) logrus.FieldLogger {
	if len(keysAndValues) == 0 {
		return l.logger
	}
	fields := make(logrus.Fields, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = "<MISSING>"
		}
	}
	return l.logger.WithFields(fields)
}
