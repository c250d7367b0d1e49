// Package logging backs types.Logger with zerolog.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Formats accepted by Options.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options controls logger construction.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// New builds a zerolog logger from opts and installs it as the zerolog
// global logger. Unknown levels fall back to info.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if strings.EqualFold(opts.Format, FormatJSON) {
		l = zerolog.New(w).With().Timestamp().Logger().Level(level)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(level)
	}
	zlog.Logger = l
	return l
}

// Adapter implements types.Logger on top of a zerolog logger. Fields are
// alternating key/value pairs.
type Adapter struct {
	log zerolog.Logger
}

// NewAdapter wraps l.
func NewAdapter(l zerolog.Logger) *Adapter {
	return &Adapter{log: l}
}

var _ types.Logger = (*Adapter)(nil)

// Debug implements types.Logger.
func (a *Adapter) Debug(msg string, fields ...any) {
	withFields(a.log.Debug(), fields).Msg(msg)
}

// Info implements types.Logger.
func (a *Adapter) Info(msg string, fields ...any) {
	withFields(a.log.Info(), fields).Msg(msg)
}

// Error implements types.Logger.
func (a *Adapter) Error(msg string, err error, fields ...any) {
	withFields(a.log.Error().Err(err), fields).Msg(msg)
}

// Ctx returns a logger carrying the chi request id when ctx has one.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zlog.Logger
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		l = l.With().Str("request_id", reqID).Logger()
	}
	return &l
}

func withFields(event *zerolog.Event, fields []any) *zerolog.Event {
	if event == nil || len(fields) == 0 {
		return event
	}
	if len(fields)%2 != 0 {
		fields = append(fields, "(MISSING)")
	}
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		event = event.Interface(key, fields[i+1])
	}
	return event
}
