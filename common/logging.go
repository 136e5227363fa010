/*
 * Copyright (c) 2026, ShadowSwift contributors
 * All rights reserved.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package common

import (
	"github.com/sirupsen/logrus"
)

// Logger exposes a logging interface that decouples the transport
// packages from any concrete logging backend. Callers that embed this
// module into a larger program may supply their own implementation.
type Logger interface {
	WithTrace() LogTrace
	WithTraceFields(fields LogFields) LogTrace
}

// LogTrace is the per-call logging handle returned by Logger.
type LogTrace interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warning(args ...interface{})
	Error(args ...interface{})
}

// LogFields is type-compatible with logrus.Fields, so implementations
// backed by logrus never need to convert.
type LogFields map[string]interface{}

// Add copies log fields from b into a, skipping fields that already
// exist, regardless of value, in a.
func (a LogFields) Add(b LogFields) {
	for name, value := range b {
		if _, ok := a[name]; !ok {
			a[name] = value
		}
	}
}

func (a LogFields) toLogrus() logrus.Fields {
	f := make(logrus.Fields, len(a))
	for k, v := range a {
		f[k] = v
	}
	return f
}

// NoticeLogger is a logrus-backed Logger. Construct it with
// NewNoticeLogger; the zero value has no logrus entry, and the
// LogTrace handles it returns panic when used.
type NoticeLogger struct {
	entry *logrus.Entry
}

// NewNoticeLogger returns a Logger backed by the given logrus.Logger.
// A nil logger falls back to logrus.StandardLogger().
func NewNoticeLogger(logger *logrus.Logger) *NoticeLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &NoticeLogger{entry: logrus.NewEntry(logger)}
}

func (l *NoticeLogger) WithTrace() LogTrace {
	return &logTrace{entry: l.entry}
}

func (l *NoticeLogger) WithTraceFields(fields LogFields) LogTrace {
	return &logTrace{entry: l.entry.WithFields(fields.toLogrus())}
}

type logTrace struct {
	entry *logrus.Entry
}

func (t *logTrace) Debug(args ...interface{})   { t.entry.Debug(args...) }
func (t *logTrace) Info(args ...interface{})    { t.entry.Info(args...) }
func (t *logTrace) Warning(args ...interface{}) { t.entry.Warning(args...) }
func (t *logTrace) Error(args ...interface{})   { t.entry.Error(args...) }

// NoopLogger discards everything. Used as the default when callers
// don't supply a Logger, so the hot path never has to nil-check.
type NoopLogger struct{}

func (NoopLogger) WithTrace() LogTrace                      { return noopTrace{} }
func (NoopLogger) WithTraceFields(fields LogFields) LogTrace { return noopTrace{} }

type noopTrace struct{}

func (noopTrace) Debug(args ...interface{})   {}
func (noopTrace) Info(args ...interface{})    {}
func (noopTrace) Warning(args ...interface{}) {}
func (noopTrace) Error(args ...interface{})   {}
