package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Logger builds the CLI logger writing to w.
func Logger(w io.Writer, lvl slog.Level, format string) (log.Logger, error) {
	switch strings.ToLower(format) {
	case "terminal", "":
		return log.NewLogger(log.NewTerminalHandlerWithLevel(w, lvl, false)), nil
	case "logfmt":
		return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl)), nil
	case "json":
		return log.NewLogger(log.JSONHandlerWithLevel(w, lvl)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func parseLevel(s string) (slog.Level, error) {
	if lvl, ok := levels[strings.ToLower(s)]; ok {
		return lvl, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// HexU32 to lazy-format IDCODE attributes for logging
type HexU32 uint32

func (v HexU32) String() string {
	return fmt.Sprintf("0x%08x", uint32(v))
}

func (v HexU32) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
