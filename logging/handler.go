package logging

import (
	"context"
	"log/slog"
)

const componentKey = "component"

// FilteringHandler applies per-component levels from a Spec before
// delegating to an inner handler. The component is picked up from a
// "component" attribute added via Logger.With.
type FilteringHandler struct {
	inner     slog.Handler
	spec      *Spec
	component string
}

// NewFilteringHandler wraps inner with spec-driven filtering.
func NewFilteringHandler(inner slog.Handler, spec *Spec) *FilteringHandler {
	return &FilteringHandler{inner: inner, spec: spec}
}

func (h *FilteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.spec.LevelFor(h.component).ToSlog()
}

func (h *FilteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Enabled(ctx, r.Level) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *FilteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &FilteringHandler{
		inner:     h.inner.WithAttrs(attrs),
		spec:      h.spec,
		component: h.component,
	}
	for _, attr := range attrs {
		if attr.Key == componentKey {
			next.component = attr.Value.String()
			break
		}
	}
	return next
}

func (h *FilteringHandler) WithGroup(name string) slog.Handler {
	return &FilteringHandler{
		inner:     h.inner.WithGroup(name),
		spec:      h.spec,
		component: h.component,
	}
}
