package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level  string `doc:"log from debug, info, warn or error (offsets like warn+2 allowed)"`
	File   string `doc:"append logs to file, - for stdout"`
	Format string `doc:"format logs as text or json"                                       default:"text"`
	Source bool   `doc:"annotate records with their source position"`
}

// problem is an unusable option, reported once the logger exists.
type problem struct {
	msg string
	err error
}

// New returns a logger configured by options. Unusable options are reset to
// their defaults and reported through the returned logger.
func New(options *Options) *slog.Logger {
	return NewWithOutput(options, os.Stdout)
}

// NewWithOutput is [New] writing to stdout instead of [os.Stdout] when no
// file is configured.
func NewWithOutput(options *Options, stdout io.Writer) *slog.Logger {
	var problems []problem

	var level slog.Level
	if options.Level != "" {
		if err := level.UnmarshalText([]byte(options.Level)); err != nil {
			problems = append(problems, problem{"could not parse logger level", err})
			options.Level, level = "", slog.LevelInfo
		}
	}

	output, err := openOutput(options.File, stdout)
	if err != nil {
		problems = append(problems, problem{"could not open logger file", err})
		options.File, output = "", stdout
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: options.Source}
	var handler slog.Handler
	switch {
	case output == nil:
		handler = slog.DiscardHandler
	case strings.EqualFold(options.Format, "json"):
		handler = slog.NewJSONHandler(output, opts)
	default:
		if !strings.EqualFold(options.Format, "text") {
			problems = append(problems, problem{"could not parse logger format", fmt.Errorf("unknown format %q", options.Format)})
			options.Format = "text"
		}
		handler = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(handler)
	for _, p := range problems {
		logger.Warn(p.msg, "err", p.err)
	}
	return logger
}

// openOutput returns the writer named by file, nil when logs are discarded.
func openOutput(file string, stdout io.Writer) (io.Writer, error) {
	switch file {
	case "", "-":
		return stdout, nil
	case os.DevNull:
		return nil, nil
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return f, nil
}
