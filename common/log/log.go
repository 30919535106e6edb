package log

import (
	"fmt"
	"io"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/inconshreveable/log15/term"
	"github.com/mattn/go-colorable"
)

const logFileName = "directsell.log"

var srvLog = log15.New()

const (
	LevelCrit  = log15.LvlCrit
	LevelError = log15.LvlError
	LevelWarn  = log15.LvlWarn
	LevelInfo  = log15.LvlInfo
	LevelDebug = log15.LvlDebug
)

func init() {
	Setup(LevelInfo, false)
}

// Setup changes the log config immediately.
// The higher lv is, the more logs would be visible.
func Setup(lv log15.Lvl, toFile bool) {
	useColor := term.IsTty(os.Stdout.Fd()) && os.Getenv("TERM") != "dumb"
	output := io.Writer(os.Stderr)
	if useColor {
		output = colorable.NewColorableStderr()
	}
	handler := log15.StreamHandler(output, log15.TerminalFormat())
	if toFile {
		handler = log15.MultiHandler(
			handler,
			FileHandler(logFileName, log15.JsonFormat()),
		)
	}
	handler = log15.LvlFilterHandler(lv, handler)
	srvLog.SetHandler(handler)
}

// Lvl converts a numeric verbosity into a log15 level, clamping out of range values.
func Lvl(verbosity int) log15.Lvl {
	if verbosity < int(LevelCrit) {
		return LevelCrit
	}
	if verbosity > int(LevelDebug) {
		return LevelDebug
	}
	return log15.Lvl(verbosity)
}

func Debug(msg string, ctx ...interface{}) {
	srvLog.Debug(msg, ctx...)
}

func Debugf(format string, values ...interface{}) {
	srvLog.Debug(fmt.Sprintf(format, values...))
}

func Info(msg string, ctx ...interface{}) {
	srvLog.Info(msg, ctx...)
}

func Infof(format string, values ...interface{}) {
	srvLog.Info(fmt.Sprintf(format, values...))
}

func Warn(msg string, ctx ...interface{}) {
	srvLog.Warn(msg, ctx...)
}

func Warnf(format string, values ...interface{}) {
	srvLog.Warn(fmt.Sprintf(format, values...))
}

func Error(msg string, ctx ...interface{}) {
	srvLog.Error(msg, ctx...)
}

func Errorf(format string, values ...interface{}) {
	srvLog.Error(fmt.Sprintf(format, values...))
}

func Crit(msg string, ctx ...interface{}) {
	srvLog.Crit(msg, ctx...)
	os.Exit(1)
}

func Critf(format string, values ...interface{}) {
	srvLog.Crit(fmt.Sprintf(format, values...))
	os.Exit(1)
}
