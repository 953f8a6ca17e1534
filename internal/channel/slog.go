package channel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Iron-Ham/daylog/internal/level"
)

// SlogHandler returns a slog.Handler that writes to c. slog levels map
// through level.FromSlog and attributes become the record context, with
// groups nested as objects. The handler enables every level and does not
// use the slog record's time; the channel's clock stamps the line.
//
// Handlers derived from the result share a lock, so a *slog.Logger built
// on it may be used from several goroutines.
func (c *Channel) SlogHandler() slog.Handler {
	return &slogHandler{ch: c, mu: &sync.Mutex{}}
}

type slogHandler struct {
	ch *Channel
	mu *sync.Mutex

	// steps replays WithGroup and WithAttrs calls in order.
	steps []handlerStep
}

type handlerStep struct {
	group string
	attrs []slog.Attr
}

func (h *slogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := Fields{}
	cur := fields
	for _, s := range h.steps {
		if s.group != "" {
			next := Fields{}
			cur[s.group] = next
			cur = next
			continue
		}
		addAttrs(cur, s.attrs)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(cur, a)
		return true
	})
	pruneEmpty(fields)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.ch.Log(level.FromSlog(r.Level), r.Message, fields)
	return err
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerStep{attrs: attrs})
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerStep{group: name})
}

func (h *slogHandler) with(s handlerStep) *slogHandler {
	steps := make([]handlerStep, 0, len(h.steps)+1)
	steps = append(steps, h.steps...)
	steps = append(steps, s)
	return &slogHandler{ch: h.ch, mu: h.mu, steps: steps}
}

func addAttrs(dst Fields, attrs []slog.Attr) {
	for _, a := range attrs {
		addAttr(dst, a)
	}
}

func addAttr(dst Fields, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		if len(group) == 0 {
			return
		}
		if a.Key == "" {
			addAttrs(dst, group)
			return
		}
		sub := Fields{}
		addAttrs(sub, group)
		dst[a.Key] = sub
	case slog.KindTime:
		dst[a.Key] = a.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		dst[a.Key] = a.Value.Duration().String()
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			dst[a.Key] = err.Error()
			return
		}
		dst[a.Key] = a.Value.Any()
	default:
		dst[a.Key] = a.Value.Any()
	}
}

// pruneEmpty drops groups that ended up without attributes.
func pruneEmpty(f Fields) bool {
	for k, v := range f {
		if sub, ok := v.(Fields); ok && pruneEmpty(sub) {
			delete(f, k)
		}
	}
	return len(f) == 0
}
