// Copyright 2017 HootSuite Media Inc.
//
// Licensed under the Apache License, Version 2.0 (the License);
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an AS IS BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Modified hereafter by contributors to runatlantis/atlantis.
//
// Package logging handles logging throughout the frontend host.
package logging

import (
	"context"
	"io"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	ctxInternal "github.com/Codehub169/tempo-6db3fc58/server/context"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	logurzap "logur.dev/adapter/zap"
	"logur.dev/logur"
)

// Logger is the logging interface used throughout the code.
type Logger interface {
	logur.Logger
	logur.LoggerContext
	io.Closer
}

type logger struct {
	logur.LoggerFacade
	io.Closer
}

func NewLoggerFromLevel(lvl LogLevel) (*logger, error) { //nolint:revive
	structuredLogger, err := NewStructuredLoggerFromLevel(lvl)
	if err != nil {
		return nil, err
	}

	ctxLogger := logur.WithContextExtractor(
		structuredLogger,
		func(ctx context.Context) map[string]interface{} {
			return ctxInternal.ExtractFields(ctx)
		},
	)

	return &logger{
		LoggerFacade: ctxLogger,
		Closer:       structuredLogger,
	}, nil
}

type StructuredLogger struct {
	z     *zap.SugaredLogger
	level zap.AtomicLevel
	logur.Logger
}

func NewStructuredLoggerFromLevel(lvl LogLevel) (*StructuredLogger, error) {
	cfg := zap.NewProductionConfig()

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(lvl.zLevel)
	return newStructuredLogger(cfg)
}

func newStructuredLogger(cfg zap.Config) (*StructuredLogger, error) {
	if cfg.EncoderConfig.TimeKey == "" {
		return nil, errors.New("encoder config has no time key")
	}

	// All entries go through the guarded sink so the failure mode of the
	// logging path itself is defined in exactly one place.
	sink := NewGuardedSink(zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), sink, cfg.Level)

	baseLogger := zap.New(core).
		// ensures that the caller doesn't just say logging/logger each time
		WithOptions(zap.AddCaller(), zap.AddCallerSkip(1)).
		WithOptions(zap.AddStacktrace(zapcore.WarnLevel)).
		// creates isolated context for all future kv pairs
		With(zap.Namespace("json"))

	return &StructuredLogger{
		z:      baseLogger.Sugar(),
		level:  cfg.Level,
		Logger: logurzap.New(baseLogger),
	}, nil
}

func (l *StructuredLogger) Debugf(format string, a ...interface{}) {
	l.z.Debugf(format, a...)
}

func (l *StructuredLogger) Infof(format string, a ...interface{}) {
	l.z.Infof(format, a...)
}

func (l *StructuredLogger) Warnf(format string, a ...interface{}) {
	l.z.Warnf(format, a...)
}

func (l *StructuredLogger) Errorf(format string, a ...interface{}) {
	l.z.Errorf(format, a...)
}

func (l *StructuredLogger) SetLevel(lvl LogLevel) {
	if l != nil {
		l.level.SetLevel(lvl.zLevel)
	}
}

func (l *StructuredLogger) Close() error {
	return l.z.Sync()
}

// NewNoopCtxLogger creates a logger instance that discards all logs and never
// writes them. Used for testing.
func NewNoopCtxLogger(t *testing.T) Logger {
	level := zap.DebugLevel
	zapLogger := zaptest.NewLogger(t, zaptest.Level(level))
	sLogger := &StructuredLogger{
		z:      zapLogger.Sugar(),
		level:  zap.NewAtomicLevelAt(level),
		Logger: logurzap.New(zapLogger),
	}

	return &logger{
		LoggerFacade: logur.WithContextExtractor(
			sLogger,
			func(ctx context.Context) map[string]interface{} {
				return ctxInternal.ExtractFields(ctx)
			},
		),
		Closer: io.NopCloser(nil),
	}
}

type LogLevel struct {
	zLevel   zapcore.Level
	shortStr string
}

func (l *LogLevel) Decode(ctx *kong.DecodeContext) error {
	var rawLevel string
	err := ctx.Scan.PopValueInto("string", &rawLevel)
	if err != nil {
		return err
	}
	switch strings.ToLower(rawLevel) {
	case "debug":
		ctx.Value.Target.Set(reflect.ValueOf(Debug))
	case "info":
		ctx.Value.Target.Set(reflect.ValueOf(Info))
	case "warn":
		ctx.Value.Target.Set(reflect.ValueOf(Warn))
	case "error":
		ctx.Value.Target.Set(reflect.ValueOf(Error))
	default:
		return errors.Errorf("log level %q is not supported", rawLevel)
	}
	return nil
}

var (
	Debug = LogLevel{
		zLevel:   zapcore.DebugLevel,
		shortStr: "DBUG",
	}
	Info = LogLevel{
		zLevel:   zapcore.InfoLevel,
		shortStr: "INFO",
	}
	Warn = LogLevel{
		zLevel:   zapcore.WarnLevel,
		shortStr: "WARN",
	}
	Error = LogLevel{
		zLevel:   zapcore.ErrorLevel,
		shortStr: "EROR",
	}
)
