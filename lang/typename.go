package lang

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// DelegateNamespace is the only namespace whose generic delegates the
// deferred type machinery understands.
const DelegateNamespace = "System"

// DelegateName is the simple name of the supported generic delegate family.
const DelegateName = "Func"

// GenericTypeName is the decomposition of a runtime generic type's fully
// qualified name, e.g.
//
//	System.Func`2[[System.Int32, mscorlib, ...],[System.String, mscorlib, ...]]
//
// decomposes into {System, Func, [System.Int32 System.String]}.
type GenericTypeName struct {
	Namespace string
	Name      string
	Args      []string
}

// arityPattern splits the simple name from the arity and the argument list.
var arityPattern = regexp.MustCompile("^(.*?)`(\\d+)(.*)$")

// ParseTypeName parses a fully qualified generic type name rooted in
// [DelegateNamespace].
//
// Every failure, including an unexpected panic while scanning, is reported as
// [ErrTypeNameParse]. A failed parse never returns a partially filled value.
func ParseTypeName(fullName string) (name GenericTypeName, err error) {
	rest, ok := strings.CutPrefix(fullName, DelegateNamespace+".")
	if !ok {
		return GenericTypeName{}, ErrTypeNameParse.
			With(slog.String("name", fullName), slog.String("reason", "namespace"))
	}

	name, err = parseGeneric(DelegateNamespace, rest)
	if err != nil {
		return GenericTypeName{}, WrapError(err).With(slog.String("name", fullName))
	}

	return name, nil
}

// parseGenericName parses a generic full name in any namespace. The namespace
// is everything before the last dot preceding the arity marker.
func parseGenericName(fullName string) (GenericTypeName, error) {
	head, _, ok := strings.Cut(fullName, "`")
	if !ok {
		return GenericTypeName{}, ErrTypeNameParse.
			With(slog.String("reason", "arity"))
	}

	i := strings.LastIndexByte(head, '.')
	if i < 0 {
		return parseGeneric("", fullName)
	}

	return parseGeneric(fullName[:i], fullName[i+1:])
}

func parseGeneric(namespace, rest string) (name GenericTypeName, err error) {
	defer func() {
		if r := recover(); r != nil {
			name = GenericTypeName{}
			err = ErrTypeNameParse.With(slog.String("reason", fmt.Sprint(r)))
		}
	}()

	m := arityPattern.FindStringSubmatch(rest)
	if m == nil || m[1] == "" {
		return GenericTypeName{}, ErrTypeNameParse.
			With(slog.String("reason", "arity"))
	}

	arity, err := strconv.Atoi(m[2])
	if err != nil {
		return GenericTypeName{}, ErrTypeNameParse.Wrap(err).
			With(slog.String("reason", "arity"))
	}

	list := m[3]
	if len(list) < 2 || list[0] != '[' || list[len(list)-1] != ']' {
		return GenericTypeName{}, ErrTypeNameParse.
			With(slog.String("reason", "braces"))
	}

	runs, err := splitRuns(list[1 : len(list)-1])
	if err != nil {
		return GenericTypeName{}, err
	}

	if len(runs) == 0 || len(runs) != arity {
		return GenericTypeName{}, ErrTypeNameParse.With(
			slog.String("reason", "arity"),
			slog.Int("expected", arity),
			slog.Int("got", len(runs)),
		)
	}

	args := make([]string, len(runs))

	for i, run := range runs {
		arg, ok := cutTopLevelComma(run)
		if !ok || arg == "" {
			return GenericTypeName{}, ErrTypeNameParse.
				With(slog.String("reason", "argument"), slog.String("run", run))
		}

		args[i] = arg
	}

	return GenericTypeName{Namespace: namespace, Name: m[1], Args: args}, nil
}

// splitRuns returns the interior of each top-level bracketed run in s.
// Text between runs other than separating commas is rejected.
func splitRuns(s string) ([]string, error) {
	var (
		runs  []string
		depth int
		start int
	)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '[':
			if depth == 0 {
				start = i + 1
			}

			depth++

		case c == ']':
			depth--

			switch {
			case depth < 0:
				return nil, ErrTypeNameParse.With(slog.String("reason", "unbalanced"))
			case depth == 0:
				runs = append(runs, s[start:i])
			}

		case depth == 0 && c != ',' && c != ' ':
			return nil, ErrTypeNameParse.With(slog.String("reason", "separator"))
		}
	}

	if depth != 0 {
		return nil, ErrTypeNameParse.With(slog.String("reason", "unbalanced"))
	}

	return runs, nil
}

// cutTopLevelComma returns the text of run preceding its first comma that is
// not nested inside brackets. The assembly, version, culture and public key
// qualifiers after it are discarded.
func cutTopLevelComma(run string) (string, bool) {
	depth := 0

	for i := 0; i < len(run); i++ {
		switch run[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(run[:i]), true
			}
		}
	}

	return "", false
}

// FullName returns the namespace-qualified simple name without arguments.
func (n GenericTypeName) FullName() string {
	if n.Namespace == "" {
		return n.Name
	}

	return n.Namespace + "." + n.Name
}

// IsDelegate reports whether n names the supported generic delegate.
func (n GenericTypeName) IsDelegate() bool {
	return n.Namespace == DelegateNamespace && n.Name == DelegateName
}

// Literal renders n in source form, e.g. System.Func<System.Int32,System.String>.
// Arguments that are themselves generic full names are rendered recursively.
func (n GenericTypeName) Literal() string {
	var sb strings.Builder

	n.writeLiteral(&sb)

	return sb.String()
}

func (n GenericTypeName) writeLiteral(sb *strings.Builder) {
	sb.WriteString(n.FullName())
	sb.WriteByte('<')

	for i, arg := range n.Args {
		if i > 0 {
			sb.WriteByte(',')
		}

		if strings.ContainsRune(arg, '`') {
			if inner, err := parseGenericName(arg); err == nil {
				inner.writeLiteral(sb)

				continue
			}
		}

		sb.WriteString(arg)
	}

	sb.WriteByte('>')
}

// String implements fmt.Stringer.
func (n GenericTypeName) String() string { return n.Literal() }
