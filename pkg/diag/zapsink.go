package diag

import (
	"fmt"

	"go.uber.org/zap"
)

// ZapSink forwards every diagnostic to a *zap.Logger in addition to
// whatever in-memory collection a caller layers on top (callers
// typically wrap a *SliceSink with a ZapSink via MultiSink below so the
// final document's warning list and the ambient log both see every
// entry). This is the only place pkg/diag touches zap; the parser and
// importer themselves only ever see the Sink interface.
type ZapSink struct {
	Log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink { return &ZapSink{Log: log} }

func (z *ZapSink) Message(format string, args ...any) {
	z.Log.Info(fmt.Sprintf(format, args...))
}

func (z *ZapSink) Warning(kind Kind, loc Location, format string, args ...any) {
	z.Log.Warn(fmt.Sprintf(format, args...), zap.String("kind", kind.String()), zap.String("at", loc.String()))
}

func (z *ZapSink) Error(kind Kind, loc Location, format string, args ...any) {
	z.Log.Error(fmt.Sprintf(format, args...), zap.String("kind", kind.String()), zap.String("at", loc.String()))
}

// MultiSink fans every call out to each underlying sink in order.
type MultiSink []Sink

func (m MultiSink) Message(format string, args ...any) {
	for _, s := range m {
		s.Message(format, args...)
	}
}

func (m MultiSink) Warning(kind Kind, loc Location, format string, args ...any) {
	for _, s := range m {
		s.Warning(kind, loc, format, args...)
	}
}

func (m MultiSink) Error(kind Kind, loc Location, format string, args ...any) {
	for _, s := range m {
		s.Error(kind, loc, format, args...)
	}
}
