package viewer

import (
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/daylog/internal/errors"
)

// Match returns the names that match a shell-style glob such as
// "billing-2024-*". An empty pattern matches everything.
func Match(names []string, pattern string) ([]string, error) {
	if pattern == "" {
		return names, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}

	matched := make([]string, 0, len(names))
	for _, name := range names {
		if g.Match(name) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}
