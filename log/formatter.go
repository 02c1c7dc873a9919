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
	"bytes"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// TextFormatter renders a logrus.Entry as "LVL[timestamp] message key=value
// ...", colorizing the level on a terminal. It replaces a third-party
// prefixed formatter with an in-tree equivalent, so the log package does
// not reach outside logrus+lumberjack for its text rendering.
type TextFormatter struct {
	TimestampFormat string
	FullTimestamp   bool
	DisableColors   bool
}

var levelColor = map[logrus.Level]int{
	logrus.TraceLevel: 37,
	logrus.DebugLevel: 36,
	logrus.InfoLevel:  32,
	logrus.WarnLevel:  33,
	logrus.ErrorLevel: 31,
	logrus.FatalLevel: 31,
	logrus.PanicLevel: 31,
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	ts := f.TimestampFormat
	if ts == "" {
		ts = "2006-01-02 15:04:05"
	}

	levelText := fmt.Sprintf("%-5s", entry.Level.String())
	if !f.DisableColors {
		if color, ok := levelColor[entry.Level]; ok {
			levelText = fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, levelText)
		}
	}

	fmt.Fprintf(&buf, "%s[%s] %s", levelText, entry.Time.Format(ts), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Data[k])
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
