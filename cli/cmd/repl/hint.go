package repl

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/lambdaeval/frame"
)

// Call hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	ambiguousStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// call is a method call detected around the cursor.
type call struct {
	callee   string // callee text, e.g. "this.Scale"
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside the argument list
}

// isCalleeRune reports whether r may appear in a dotted callee.
func isCalleeRune(r rune) bool {
	return r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// detectCall finds the innermost unclosed argument list before the cursor
// and the callee written in front of it.
func detectCall(input string, cursor int) call {
	cursor = min(cursor, len(input))

	open, depth := -1, 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return call{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isCalleeRune(r) {
			break
		}

		start -= size
	}

	callee := input[start:open]
	if callee == "" || strings.HasPrefix(callee, ".") {
		return call{}
	}

	index := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				index++
			}
		}
	}

	return call{callee: callee, argIndex: index, inCall: true}
}

// renderCallHint renders the overload families of a detected call, with the
// argument under the cursor highlighted.
func renderCallHint(c call, kind frame.MethodKind) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(c.callee))
	b.WriteString(signatureStyle.Render("("))

	for i := range c.argIndex + 1 {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		arg := "arg" + strconv.Itoa(i)
		if i == c.argIndex {
			b.WriteString(currentParamStyle.Render(arg))
		} else {
			b.WriteString(signatureStyle.Render(arg))
		}
	}

	b.WriteString(signatureStyle.Render(")"))
	b.WriteString(" ")

	switch {
	case kind.Instance && kind.Static:
		b.WriteString(ambiguousStyle.Render(
			"instance and static overloads on " + kind.Receiver + " (ambiguous)"))
	case kind.Static:
		b.WriteString(signatureStyle.Render("static method of " + kind.Receiver))
	default:
		b.WriteString(signatureStyle.Render("instance method of " + kind.Receiver))
	}

	return b.String()
}
