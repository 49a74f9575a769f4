package log

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const timestampFormat = "15:04:05.000"

var levelColors = map[logrus.Level]*color.Color{
	logrus.DebugLevel: color.New(color.FgHiBlack),
	logrus.InfoLevel:  color.New(color.FgCyan),
	logrus.WarnLevel:  color.New(color.FgYellow),
	logrus.ErrorLevel: color.New(color.FgRed, color.Bold),
}

// consoleFormatter renders one line per entry:
//
//	15:04:05.000 INFO  [Button:Click] Clicked Login Button execution=3f2a...
//
// The level is colored when color output is enabled. Fields other than the category follow the
// message in key order.
type consoleFormatter struct{}

func (consoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	level := fmt.Sprintf("%-5s", strings.ToUpper(entry.Level.String()))
	if c, ok := levelColors[entry.Level]; ok {
		level = c.Sprint(level)
	}
	fmt.Fprintf(&b, "%s %s ", entry.Time.Format(timestampFormat), level)
	if category, ok := entry.Data[categoryField]; ok {
		fmt.Fprintf(&b, "[%v] ", category)
	}
	b.WriteString(entry.Message)

	keys := maps.Keys(entry.Data)
	slices.Sort(keys)
	for _, key := range keys {
		if key != categoryField {
			fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
