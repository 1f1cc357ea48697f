package cmd

import (
	"context"

	"go.uber.org/zap"
)

// ctxObserver adapts a context.Context (cancelled by root.go's SIGINT
// handling, mirroring the donor's signal.NotifyContext-driven shutdown)
// to progress.Observer, so a parse or import invoked from this CLI
// reacts to Ctrl-C the same cooperative way pkg/schematic and
// pkg/cadstarimport already check it internally.
type ctxObserver struct {
	ctx context.Context
	log *zap.Logger
}

func newCtxObserver(ctx context.Context, log *zap.Logger) *ctxObserver {
	return &ctxObserver{ctx: ctx, log: log}
}

func (o *ctxObserver) Report(current, total int) {
	if o.log == nil {
		return
	}
	if total > 0 {
		o.log.Debug("progress", zap.Int("current", current), zap.Int("total", total))
	} else {
		o.log.Debug("progress", zap.Int("current", current))
	}
}

func (o *ctxObserver) ShouldCancel() bool {
	return o.ctx.Err() != nil
}
