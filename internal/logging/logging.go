/*
 * MIT License
 *
 * Copyright (c) 2026 echosrv contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package logging wraps logrus with the small chainable builder this
// repository's components share: pick a level, attach fields, log.
package logging

import "github.com/sirupsen/logrus"

// Level mirrors logrus.Level under this package's own name, so callers
// never need to import logrus directly just to pick a level.
type Level = logrus.Level

const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
	TraceLevel = logrus.TraceLevel
)

// ParseLevel parses a level name ("info", "debug", ...) the same way
// configuration does.
func ParseLevel(name string) (Level, error) {
	return logrus.ParseLevel(name)
}

// Logger is a thin, named wrapper around a logrus.Logger. Construct one
// per component (session manager, admin HTTP surface, CLI) with New so
// every line it emits carries a "component" field.
type Logger struct {
	base      *logrus.Logger
	component string
}

// New builds a Logger at level writing to logrus's default destination
// (stderr), formatted as JSON when format is "json" and as text otherwise.
func New(component string, level Level, format string) *Logger {
	base := logrus.New()
	base.SetLevel(level)
	if format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &Logger{base: base, component: component}
}

// Entry starts a chainable log record at level with msg.
func (l *Logger) Entry(level Level, msg string) *Builder {
	return &Builder{
		entry: l.base.WithField("component", l.component),
		level: level,
		msg:   msg,
	}
}

func (l *Logger) Debug(msg string) *Builder { return l.Entry(DebugLevel, msg) }
func (l *Logger) Info(msg string) *Builder  { return l.Entry(InfoLevel, msg) }
func (l *Logger) Warn(msg string) *Builder  { return l.Entry(WarnLevel, msg) }
func (l *Logger) Error(msg string) *Builder { return l.Entry(ErrorLevel, msg) }

// Builder accumulates fields for one log record before Log flushes it.
type Builder struct {
	entry *logrus.Entry
	level Level
	msg   string
}

// Field attaches one key/value pair and returns the builder for
// chaining.
func (b *Builder) Field(key string, value any) *Builder {
	b.entry = b.entry.WithField(key, value)
	return b
}

// Err attaches err under the conventional "error" field, a no-op if err
// is nil so call sites don't need to branch.
func (b *Builder) Err(err error) *Builder {
	if err == nil {
		return b
	}
	return b.Field("error", err.Error())
}

// Log flushes the record at its configured level.
func (b *Builder) Log() {
	b.entry.Log(b.level, b.msg)
}
