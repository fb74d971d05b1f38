package obs

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
)

var (
	mu     sync.RWMutex
	logger log.Logger = log.NewNopLogger()
)

// NewLogger builds the process logger. format is "json", "logfmt" or "auto";
// auto writes logfmt to a terminal and JSON otherwise.
func NewLogger(w io.Writer, format, minLevel string) log.Logger {
	var l log.Logger
	switch format {
	case "json":
		l = log.NewJSONLogger(log.NewSyncWriter(w))
	case "logfmt":
		l = log.NewLogfmtLogger(log.NewSyncWriter(w))
	default:
		if isTerminal(w) {
			l = log.NewLogfmtLogger(log.NewSyncWriter(w))
		} else {
			l = log.NewJSONLogger(log.NewSyncWriter(w))
		}
	}

	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(l, levelOption(minLevel))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func levelOption(s string) level.Option {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// SetLogger replaces the process logger. Call it once at startup.
func SetLogger(l log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func Logger() log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
