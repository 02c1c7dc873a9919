// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Ctx is a convenience alias for passing structured context as a map
// instead of an alternating key/value slice.
type Ctx map[string]interface{}

func (c Ctx) toArray() []interface{} {
	arr := make([]interface{}, 0, len(c)*2)
	for k, v := range c {
		arr = append(arr, k, v)
	}
	return arr
}

// normalize pads an odd-length key/value slice with a trailing nil value
// so callers can't crash the logger by forgetting one argument.
func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, nil)
	}
	return ctx
}

// logger is the concrete Logger implementation: an immutable key/value
// context plus a pool of scratch maps used to avoid an allocation per
// write call.
type logger struct {
	ctx     []interface{}
	mapPool sync.Pool
}

func newMapPool() sync.Pool {
	return sync.Pool{New: func() any { return map[string]interface{}{} }}
}

// New returns a new Logger whose context is this logger's context plus ctx.
func (l *logger) New(ctx ...interface{}) Logger {
	merged := make([]interface{}, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, normalize(ctx)...)
	return &logger{ctx: merged, mapPool: newMapPool()}
}

// write renders msg at lvl with the logger's context plus ctx. skip is
// accepted for interface parity with call-site skip-depth conventions but
// is not used: logrus attributes entries by field, not caller frame.
func (l *logger) write(msg string, lvl Lvl, ctx []interface{}, skip int) {
	all := normalize(append(append([]interface{}{}, l.ctx...), ctx...))

	fields, _ := l.mapPool.Get().(map[string]interface{})
	for k := range fields {
		delete(fields, k)
	}
	for i := 0; i+1 < len(all); i += 2 {
		key, ok := all[i].(string)
		if !ok {
			continue
		}
		fields[key] = all[i+1]
	}
	defer l.mapPool.Put(fields)

	entry := terminal.WithFields(fields)
	switch lvl {
	case LvlTrace:
		entry.Trace(msg)
	case LvlDebug:
		entry.Debug(msg)
	case LvlInfo:
		entry.Info(msg)
	case LvlWarn:
		entry.Warn(msg)
	case LvlError:
		entry.Error(msg)
	case LvlFatal:
		entry.Error(msg)
		os.Exit(1)
	case LvlCrit:
		entry.Error(msg)
	}
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(msg, LvlTrace, ctx, skipLevel) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(msg, LvlDebug, ctx, skipLevel) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(msg, LvlInfo, ctx, skipLevel) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(msg, LvlWarn, ctx, skipLevel) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(msg, LvlError, ctx, skipLevel) }
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(msg, LvlCrit, ctx, skipLevel)
	os.Exit(1)
}

var _ logrus.Formatter = (*TextFormatter)(nil)
