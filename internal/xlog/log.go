// Package xlog provides structured, colored logging for the node.
package xlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide base logger.
var Logger zerolog.Logger

// Component loggers for each major subsystem.
var (
	Chain     zerolog.Logger
	P2P       zerolog.Logger
	Consensus zerolog.Logger
	Mempool   zerolog.Logger
	Proposer  zerolog.Logger
	Node      zerolog.Logger
	Snapshot  zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stdout, "info")
	initComponentLoggers()
}

// Init reconfigures the base and component loggers at the given
// level, either colored console output or JSON.
func Init(level string, jsonOutput bool) {
	if jsonOutput {
		Logger = NewJSONLogger(os.Stdout, level)
	} else {
		Logger = NewConsoleLogger(os.Stdout, level)
	}
	initComponentLoggers()
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}
	return zerolog.New(output).Level(parseLevel(level)).With().Timestamp().Logger()
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func initComponentLoggers() {
	Chain = Logger.With().Str("component", "chain").Logger()
	P2P = Logger.With().Str("component", "p2p").Logger()
	Consensus = Logger.With().Str("component", "consensus").Logger()
	Mempool = Logger.With().Str("component", "mempool").Logger()
	Proposer = Logger.With().Str("component", "proposer").Logger()
	Node = Logger.With().Str("component", "node").Logger()
	Snapshot = Logger.With().Str("component", "snapshot").Logger()
}

// WithComponent returns a logger tagged with an arbitrary component
// name, for subsystems that don't warrant a dedicated package-level
// variable.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
