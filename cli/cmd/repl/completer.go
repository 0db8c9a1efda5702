package repl

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lambdaeval/frame"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "names", "invoke", "rename", "edit", "clear", "quit"}

// literals are keywords offered at the top level alongside frame names.
var literals = []string{"null", "true", "false"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, and operator or punctuation
// characters of the lambda grammar.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^', '~',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary (after a space, after a dot, start of line).
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word starting
// at wordStart. For input "x + this.Name.Le" with the word "Le", the parent
// path is "this.Name". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	chain, ok := strings.CutSuffix(prefix, ".")
	if !ok {
		return ""
	}

	pos := len(chain)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(chain[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(strings.TrimSpace(chain[pos:]), ".")
}

// lambdaParams returns the parameter names declared before the arrow of the
// lambda in input, typed or not.
func lambdaParams(input string) []string {
	head, _, ok := strings.Cut(input, "=>")
	if !ok {
		return nil
	}

	head = strings.Trim(strings.TrimSpace(head), "()")

	var names []string

	for part := range strings.SplitSeq(head, ",") {
		if fields := strings.Fields(part); len(fields) > 0 {
			names = append(names, fields[len(fields)-1])
		}
	}

	return names
}

// childCandidates returns the names that are valid completions after parent.
// At the top level these are the frame's visible names, the parameters of
// the lambda being typed, and literal keywords.
func childCandidates(
	ctx context.Context,
	f *frame.Frame,
	input, parent string,
) []string {
	if parent != "" {
		return f.Complete(ctx, parent)
	}

	names := f.Complete(ctx, "")
	names = append(names, lambdaParams(input)...)
	names = append(names, literals...)

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word at the top level has no matches; an empty word
// after a dot matches every member.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" || strings.ContainsRune(input[:wordStart], ' ') {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.ctxFunc(), m.frame, input, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += lipgloss.Width(sep)

			if i < len(matches)-1 && used+w+reserve > width {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
