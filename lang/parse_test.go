package lang

import (
	"errors"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string // canonical rendering; empty means same as input
	}{
		{name: "identifier", input: "x"},
		{name: "verbatim identifier", input: "@class"},
		{name: "number", input: "42"},
		{name: "real with suffix", input: "1.5e3f"},
		{name: "hex", input: "0xFF"},
		{name: "string", input: `"a \"quoted\" word"`},
		{name: "verbatim string", input: `@"c:\temp"`},
		{name: "char", input: `'\n'`},
		{name: "null", input: "null"},
		{name: "member chain", input: "a.b.c"},
		{name: "call chain", input: "a.b.c(d)[0]"},
		{name: "this member", input: "this.count"},
		{name: "base call", input: "base.ToString()"},
		{name: "predefined member", input: "int.MaxValue"},
		{name: "generic call", input: "M<int>(x)"},
		{name: "generic member call", input: "list.Cast<string, List<int>>()"},
		{name: "less than", input: "a < b"},
		{name: "greater than", input: "a > b"},
		{name: "shift left", input: "a << 2"},
		{name: "shift right", input: "a >> 2"},
		{name: "arithmetic", input: "a + b * c - d / e % f"},
		{name: "logical", input: "a && b || !c"},
		{name: "bitwise", input: "a & b | c ^ ~d"},
		{name: "coalesce", input: "a ?? b ?? c"},
		{name: "spacing", input: "a+b*  c", want: "a + b * c"},
		{name: "conditional", input: "a < b ? c : d"},
		{name: "is", input: "x is string"},
		{name: "as", input: "x as System.String"},
		{name: "is before conditional", input: "x is int ? 1 : 0"},
		{name: "cast predefined", input: "(int)x"},
		{name: "cast negative", input: "(int)-x"},
		{name: "cast qualified", input: "(System.Int32)x"},
		{name: "cast generic", input: "(List<int>)o"},
		{name: "cast nullable", input: "(int?)o"},
		{name: "paren not cast", input: "(a) + b"},
		{name: "paren", input: "(a + b) * c"},
		{name: "unary minus paren", input: "-(x)"},
		{name: "double negation", input: "- -x"},
		{name: "postfix", input: "x++"},
		{name: "prefix", input: "--x"},
		{name: "typeof", input: "typeof(List<int>)"},
		{name: "default", input: "default(int?)"},
		{name: "array type", input: "typeof(int[,][])"},
		{name: "new object", input: "new Foo(1, 2)"},
		{name: "new array", input: "new int[5]"},
		{name: "new array init", input: "new int[] { 1, 2 }"},
		{name: "new anonymous", input: "new { A = 1, B }"},
		{name: "assignment", input: "x = y + 1"},
		{name: "compound assignment", input: "x += 1"},
		{name: "shift assignment", input: "x >>= 1"},
		{name: "lambda", input: "x => x.Value + y"},
		{name: "lambda parens", input: "(x, y) => x * y"},
		{name: "lambda single paren", input: "(x) => x"},
		{name: "lambda empty", input: "() => 42"},
		{name: "lambda typed", input: "(int x, string s) => s.Length + x"},
		{name: "lambda nullable typed", input: "(int? x, int y) => x ?? y"},
		{name: "lambda curried", input: "x => y => x + y"},
		{name: "lambda argument", input: "list.Where(x => x > 0)"},
		{name: "lambda block", input: "x => { return x; }"},
		{name: "comments", input: "a /* plus */ + b // tail", want: "a + b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}

			want := tt.want
			if want == "" {
				want = tt.input
			}

			if got := n.String(); got != want {
				t.Errorf("String() = %q, want %q", got, want)
			}
		})
	}
}

func TestParse_Structure(t *testing.T) {
	t.Parallel()

	t.Run("multiplication binds tighter", func(t *testing.T) {
		n := mustParse(t, "a + b * c")

		bin, ok := n.(*Binary)
		if !ok || bin.Op != "+" {
			t.Fatalf("root = %s %q, want binary +", Kind(n), n)
		}

		if right, ok := bin.Right.(*Binary); !ok || right.Op != "*" {
			t.Errorf("right = %s, want binary *", Kind(bin.Right))
		}
	})

	t.Run("subtraction is left associative", func(t *testing.T) {
		bin := mustParse(t, "a - b - c").(*Binary)

		if _, ok := bin.Left.(*Binary); !ok {
			t.Errorf("left = %s, want binary", Kind(bin.Left))
		}
	})

	t.Run("coalesce is right associative", func(t *testing.T) {
		bin := mustParse(t, "a ?? b ?? c").(*Binary)

		if _, ok := bin.Right.(*Binary); !ok {
			t.Errorf("right = %s, want binary", Kind(bin.Right))
		}
	})

	t.Run("cast applies to member access", func(t *testing.T) {
		cast, ok := mustParse(t, "(int)x.y").(*Cast)
		if !ok {
			t.Fatal("root is not a cast")
		}

		if _, ok := cast.Operand.(*Member); !ok {
			t.Errorf("operand = %s, want member access", Kind(cast.Operand))
		}
	})

	t.Run("generic call arguments", func(t *testing.T) {
		call := mustParse(t, "a.M<int>(x)").(*Call)

		m, ok := call.Func.(*Member)
		if !ok || m.Name != "M" || len(m.TypeArgs) != 1 || m.TypeArgs[0].Name != "int" {
			t.Errorf("callee = %#v, want member M<int>", call.Func)
		}
	})

	t.Run("lambda parameters", func(t *testing.T) {
		lam := mustParse(t, "(int a, b) => a").(*Lambda)

		if got := lam.ParamNames(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("ParamNames() = %q", got)
		}

		if lam.Params[0].Type == nil || lam.Params[1].Type != nil {
			t.Errorf("Params = %+v, want first typed only", lam.Params)
		}
	})

	t.Run("positions", func(t *testing.T) {
		bin := mustParse(t, "a +\n  bc").(*Binary)

		if got := bin.Right.Pos(); got.Line != 2 || got.Column != 3 || got.Offset != 6 {
			t.Errorf("Pos() = %+v, want line 2 column 3 offset 6", got)
		}
	})
}

func TestParse_SyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		line   int64
		column int64
	}{
		{"empty", "", 1, 1},
		{"dangling operator", "a +", 1, 4},
		{"unclosed paren", "(a", 1, 3},
		{"juxtaposed", "a b", 1, 3},
		{"unterminated string", `"abc`, 1, 1},
		{"unterminated block", "x => { x", 1, 6},
		{"unterminated comment", "a /* b", 1, 3},
		{"invalid character", "a # b", 1, 3},
		{"new without arguments", "new Foo", 1, 8},
		{"missing member name", "a.", 1, 3},
		{"empty index", "a[]", 1, 2},
		{"trailing argument comma", "f(a,)", 1, 5},
		{"second line", "a +\n  )", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) = %q, want error", tt.input, n)
			}

			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("error = %v, want ErrSyntax", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			if line, _ := e.Attr("line"); line.Int64() != tt.line {
				t.Errorf("line = %d, want %d", line.Int64(), tt.line)
			}

			if col, _ := e.Attr("column"); col.Int64() != tt.column {
				t.Errorf("column = %d, want %d", col.Int64(), tt.column)
			}
		})
	}
}

func TestParseLambda(t *testing.T) {
	t.Parallel()

	lam, err := ParseLambda("((x => x + 1))")
	if err != nil {
		t.Fatalf("ParseLambda() error = %v", err)
	}

	if got := lam.String(); got != "x => x + 1" {
		t.Errorf("String() = %q", got)
	}

	if _, err := ParseLambda("a + b"); !errors.Is(err, ErrNotLambda) {
		t.Errorf("ParseLambda(a + b) error = %v, want ErrNotLambda", err)
	}
}

func mustParse(t *testing.T, src string) Node {
	t.Helper()

	n, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}

	return n
}
