package meshview

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record and reports every level disabled.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

// active is swapped by SetLogger while backend queue goroutines may be
// logging.
var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(silent)
}

// SetLogger routes the viewer's diagnostics to l. A nil l silences them
// again, which is also the state before the first call.
//
// Messages are prefixed with the emitting package ("frame:", "render:",
// "wgpu:", "software:"). At debug level the synchronizer reports each
// blocking fence wait with its slot, value, completed value and elapsed
// time. Info covers device and renderer startup and the loop summary.
// Warn flags a command list reset while its slot is still in flight.
//
//	meshview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//		&slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	active.Store(l)
}

// Logger returns the logger set with SetLogger. It is safe for
// concurrent use.
func Logger() *slog.Logger {
	return active.Load()
}
