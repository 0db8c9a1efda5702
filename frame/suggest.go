package frame

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lambdaeval/lang"
)

// suggest returns the candidate that best fuzzy-matches name, if any.
// Ties are broken by the shorter candidate, then lexically.
func suggest(name string, candidates []string) (string, bool) {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return "", false
	}

	best := slices.MinFunc(matches, func(a, b fuzzy.Match) int {
		switch {
		case a.Score != b.Score:
			return b.Score - a.Score
		case len(a.Str) != len(b.Str):
			return len(a.Str) - len(b.Str)
		default:
			return cmp.Compare(a.Str, b.Str)
		}
	})

	return best.Str, best.Str != name
}

// unknown builds the error for a name the frame cannot resolve, naming the
// closest visible candidate when one exists.
func (f *Frame) unknown(path, name string, candidates []string) error {
	err := lang.ErrUnknownIdentifier.With(slog.String("name", path))

	if s, ok := suggest(name, candidates); ok {
		err = err.With(slog.String("suggestion", s))
	}

	return err
}
