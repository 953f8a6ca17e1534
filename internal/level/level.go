// Package level defines the severity levels of the log channel and the
// registry that names and validates them.
package level

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/Iron-Ham/daylog/internal/errors"
)

// Level is a numeric severity. Higher is more severe.
type Level int

// Standard severities.
const (
	Debug     Level = 100
	Info      Level = 200
	Notice    Level = 250
	Warning   Level = 300
	Error     Level = 400
	Critical  Level = 500
	Alert     Level = 550
	Emergency Level = 600
)

var standard = map[Level]string{
	Debug:     "DEBUG",
	Info:      "INFO",
	Notice:    "NOTICE",
	Warning:   "WARNING",
	Error:     "ERROR",
	Critical:  "CRITICAL",
	Alert:     "ALERT",
	Emergency: "EMERGENCY",
}

// String returns the standard name of the level, or the number if the
// level is not a standard one.
func (l Level) String() string {
	if name, ok := standard[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

// Ref refers to a level either by number or by name. It is resolved once,
// through a Registry, at the channel boundary.
type Ref interface {
	resolve(r *Registry) (Level, string, error)
}

// Named refers to a level by its name. Matching is case-insensitive.
type Named string

func (l Level) resolve(r *Registry) (Level, string, error) {
	name, err := r.Name(l)
	return l, name, err
}

func (n Named) resolve(r *Registry) (Level, string, error) {
	l, err := r.Lookup(string(n))
	if err != nil {
		return 0, "", err
	}
	return l, r.names[l], nil
}

// Registry is an immutable table of levels and their canonical names.
// The zero value is not usable; use Default or NewRegistry.
type Registry struct {
	names  map[Level]string
	levels map[string]Level
	sorted []Level
}

// Default returns a registry holding the eight standard levels.
func Default() *Registry {
	return NewRegistry(standard)
}

// NewRegistry builds a registry from a complete table. The table is
// copied; later changes to it do not affect the registry. Names are
// stored upper-cased.
func NewRegistry(table map[Level]string) *Registry {
	r := &Registry{
		names:  make(map[Level]string, len(table)),
		levels: make(map[string]Level, len(table)),
		sorted: make([]Level, 0, len(table)),
	}
	for l, name := range table {
		name = strings.ToUpper(name)
		r.names[l] = name
		r.levels[name] = l
		r.sorted = append(r.sorted, l)
	}
	slices.Sort(r.sorted)
	return r
}

// Name returns the canonical name of l, or a *errors.LevelError listing
// the valid levels.
func (r *Registry) Name(l Level) (string, error) {
	name, ok := r.names[l]
	if !ok {
		return "", errors.NewLevelError(int(l), r.validInts())
	}
	return name, nil
}

// Lookup returns the level with the given name.
func (r *Registry) Lookup(name string) (Level, error) {
	l, ok := r.levels[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.NewLevelNameError(name, r.validInts())
	}
	return l, nil
}

// Resolve validates ref and returns the level and its canonical name.
func (r *Registry) Resolve(ref Ref) (Level, string, error) {
	if ref == nil {
		return 0, "", errors.NewLevelNameError("", r.validInts())
	}
	return ref.resolve(r)
}

// All returns a copy of the table keyed by name.
func (r *Registry) All() map[string]Level {
	out := make(map[string]Level, len(r.levels))
	for name, l := range r.levels {
		out[name] = l
	}
	return out
}

// Levels returns the registered levels in ascending order.
func (r *Registry) Levels() []Level {
	return slices.Clone(r.sorted)
}

func (r *Registry) validInts() []int {
	out := make([]int, len(r.sorted))
	for i, l := range r.sorted {
		out[i] = int(l)
	}
	return out
}

// Parse accepts either a number ("200") or a name ("info") and returns
// the matching Ref. It does not validate; resolve the result through a
// Registry.
func Parse(s string) Ref {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Level(n)
	}
	return Named(s)
}

// FromSlog maps a slog level onto the channel's levels.
func FromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return Debug
	case l < slog.LevelWarn:
		return Info
	case l < slog.LevelError:
		return Warning
	case l == slog.LevelError:
		return Error
	default:
		return Critical
	}
}
