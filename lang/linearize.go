package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ardnew/lambdaeval/log"
)

// Linearizer rewrites lambda bodies into flat text that the debuggee's
// evaluator can run against the current stack frame. Every captured outer
// variable is resolved once, bound in a fresh [SymbolTable] and referenced
// by its generated name.
//
// A Linearizer is immutable; each call runs an independent pass, so it may be
// shared across goroutines as long as its collaborators allow it.
type Linearizer struct {
	eval      Evaluator
	types     TypeSystem
	logger    log.Logger
	renameAll bool
}

// Option configures a [Linearizer].
type Option func(*Linearizer)

// WithLogger sets the logger used for pass and resolution tracing.
func WithLogger(logger log.Logger) Option {
	return func(z *Linearizer) {
		z.logger = logger
	}
}

// WithRenameAll forces a generated name for every captured variable, even
// when its own name is free.
func WithRenameAll(rename bool) Option {
	return func(z *Linearizer) {
		z.renameAll = rename
	}
}

// NewLinearizer returns a Linearizer resolving names with eval and answering
// accessibility questions with types.
func NewLinearizer(eval Evaluator, types TypeSystem, opts ...Option) *Linearizer {
	z := &Linearizer{eval: eval, types: types}

	for _, opt := range opts {
		opt(z)
	}

	return z
}

// Result is the outcome of linearizing one lambda.
type Result struct {
	// Params are the lambda's parameter names in order.
	Params []string
	// Body is the rewritten body text.
	Body string
	// Text is the complete lambda, (p1, p2) => Body, ready for re-submission.
	Text string
	// Bindings are the captured values to push into the frame, in first-use
	// order.
	Bindings []Binding
	// PassID identifies the pass in log output.
	PassID uuid.UUID
}

// Linearize rewrites body, treating params as the enclosing lambda's
// parameters. Captured bindings are discarded; use [Linearizer.Lambda] to
// keep them.
func (z *Linearizer) Linearize(
	ctx context.Context,
	body Node,
	params ...string,
) (string, error) {
	p := z.newPass(params)

	text, err := p.linearize(ctx, body)
	if err != nil {
		return "", err
	}

	return text, nil
}

// Lambda linearizes the body of lam.
func (z *Linearizer) Lambda(ctx context.Context, lam *Lambda) (*Result, error) {
	params := lam.ParamNames()
	p := z.newPass(params)

	p.logger.DebugContext(ctx, "linearize",
		slog.String("lambda", lam.String()),
		slog.Int("params", len(params)))

	body, err := p.linearize(ctx, lam.Body)
	if err != nil {
		p.logger.DebugContext(ctx, "linearize failed", slog.Any("error", err))

		return nil, err
	}

	decl := make([]string, len(lam.Params))
	for i, param := range lam.Params {
		decl[i] = param.String()
	}

	res := &Result{
		Params:   params,
		Body:     body,
		Text:     "(" + strings.Join(decl, ", ") + ") => " + body,
		Bindings: p.symbols.Bindings(),
		PassID:   p.id,
	}

	p.logger.DebugContext(ctx, "linearized",
		slog.String("text", res.Text),
		slog.Int("bindings", len(res.Bindings)))

	return res, nil
}

// LinearizeString parses src as a lambda and linearizes it.
func (z *Linearizer) LinearizeString(ctx context.Context, src string) (*Result, error) {
	lam, err := ParseLambda(src)
	if err != nil {
		return nil, err
	}

	return z.Lambda(ctx, lam)
}

// pass is the state owned by a single linearization.
type pass struct {
	*Linearizer

	id      uuid.UUID
	logger  log.Logger
	symbols *SymbolTable
	params  map[string]struct{}
	cache   map[string]Value // resolution text -> handle
}

func (z *Linearizer) newPass(params []string) *pass {
	id := uuid.New()

	p := &pass{
		Linearizer: z,
		id:         id,
		logger:     z.logger.With(slog.String("pass", id.String())),
		symbols:    NewSymbolTable(),
		params:     make(map[string]struct{}, len(params)),
		cache:      make(map[string]Value),
	}

	for _, name := range params {
		p.params[name] = struct{}{}
		p.symbols.Reserve(name)
	}

	return p
}

// linearize renders n with every captured name replaced by its generated
// name. Node kinds outside the supported subset fail with [ErrNotSupported].
func (p *pass) linearize(ctx context.Context, n Node) (string, error) {
	switch n := n.(type) {
	case *Identifier:
		if len(n.TypeArgs) > 0 {
			return "", p.notSupported(n)
		}

		return p.identifier(ctx, n.Name)

	case *This:
		return p.capture(ctx, "this", false)

	case *Base:
		return p.capture(ctx, "base", true)

	case *Member:
		return p.member(ctx, n)

	case *Call:
		return p.call(ctx, n)

	case *Binary:
		left, err := p.linearize(ctx, n.Left)
		if err != nil {
			return "", err
		}

		right, err := p.linearize(ctx, n.Right)
		if err != nil {
			return "", err
		}

		return left + " " + n.Op + " " + right, nil

	case *Unary:
		operand, err := p.linearize(ctx, n.Operand)
		if err != nil {
			return "", err
		}

		if n.Postfix {
			return operand + n.Op, nil
		}

		return prefix(n.Op, operand), nil

	case *Cast:
		operand, err := p.linearize(ctx, n.Operand)
		if err != nil {
			return "", err
		}

		return "(" + n.Type.String() + ")" + operand, nil

	case *TypeTest:
		operand, err := p.linearize(ctx, n.Operand)
		if err != nil {
			return "", err
		}

		return operand + " " + n.Op + " " + n.Type.String(), nil

	case *Conditional:
		cond, err := p.linearize(ctx, n.Cond)
		if err != nil {
			return "", err
		}

		then, err := p.linearize(ctx, n.Then)
		if err != nil {
			return "", err
		}

		els, err := p.linearize(ctx, n.Else)
		if err != nil {
			return "", err
		}

		return cond + " ? " + then + " : " + els, nil

	case *Paren:
		inner, err := p.linearize(ctx, n.Inner)
		if err != nil {
			return "", err
		}

		return "(" + inner + ")", nil

	case *Literal, *TypeOf, *TypeExpr:
		return n.String(), nil

	default:
		return "", p.notSupported(n)
	}
}

func (p *pass) notSupported(n Node) error {
	return ErrNotSupported.
		With(slog.String("kind", Kind(n))).
		WithPosition(n.Pos())
}

func (p *pass) isParam(name string) bool {
	_, ok := p.params[name]

	return ok
}

// resolve evaluates text at most once per pass. Evaluator failures are
// returned unchanged.
func (p *pass) resolve(ctx context.Context, text string) (Value, error) {
	if v, ok := p.cache[text]; ok {
		return v, nil
	}

	v, err := p.eval.Evaluate(ctx, text)
	if err != nil {
		p.logger.TraceContext(ctx, "resolve failed",
			slog.String("text", text),
			slog.Any("error", err))

		return nil, err
	}

	if v == nil {
		return nil, ErrUnknownIdentifier.With(slog.String("name", text))
	}

	p.logger.TraceContext(ctx, "resolve",
		slog.String("text", text),
		slog.String("flags", v.Flags().String()))

	p.cache[text] = v

	return v, nil
}

func (p *pass) identifier(ctx context.Context, name string) (string, error) {
	if p.isParam(name) {
		return name, nil
	}

	if gen, ok := p.symbols.Lookup(name); ok {
		return gen, nil
	}

	v, err := p.resolve(ctx, name)
	if err != nil {
		return "", err
	}

	if v.Flags().Any(FlagNamespace | FlagType) {
		return name, nil
	}

	return p.bind(ctx, name, v, p.renameAll), nil
}

// capture binds the this or base reference. The bound name is the key; only
// its generated name appears in the output.
func (p *pass) capture(ctx context.Context, key string, mustRename bool) (string, error) {
	if gen, ok := p.symbols.Lookup(key); ok {
		return gen, nil
	}

	v, err := p.resolve(ctx, key)
	if err != nil {
		return "", err
	}

	return p.bind(ctx, key, v, mustRename || p.renameAll), nil
}

func (p *pass) bind(ctx context.Context, name string, v Value, mustRename bool) string {
	gen := p.symbols.Bind(name, v, mustRename)

	p.logger.TraceContext(ctx, "bind",
		slog.String("name", name),
		slog.String("generated", gen))

	return gen
}

// resolvable reports whether a member access must be resolved before it is
// emitted: its chain is rooted in a name that lives in the frame rather than
// in a lambda parameter or a computed value.
func (p *pass) resolvable(m *Member) bool {
	n := m.Target

	for {
		switch t := n.(type) {
		case *Member:
			n = t.Target
		case *Call:
			n = t.Func
		case *Index:
			n = t.Target
		case *Paren:
			n = t.Inner
		case *Identifier:
			return !p.isParam(t.Name)
		case *This, *Base, *TypeExpr:
			return true
		default:
			return false
		}
	}
}

func (p *pass) member(ctx context.Context, m *Member) (string, error) {
	if len(m.TypeArgs) > 0 {
		return "", p.notSupported(m)
	}

	if p.resolvable(m) {
		text := m.String()

		v, err := p.resolve(ctx, text)
		if err != nil {
			return "", err
		}

		if err := p.accessible(text, v); err != nil {
			return "", err
		}
	}

	target, err := p.linearize(ctx, m.Target)
	if err != nil {
		return "", err
	}

	return target + "." + m.Name, nil
}

// accessible checks that a resolved member access may be referenced from
// re-submitted text.
func (p *pass) accessible(text string, v Value) error {
	flags := v.Flags()

	if flags.Has(FlagNamespace) {
		return nil
	}

	if flags.Any(FlagField|FlagProperty) && !flags.Has(FlagPublic) {
		return ErrInaccessibleMember.With(slog.String("name", text))
	}

	if t := v.Type(); t != nil && !p.types.IsPublic(t) {
		return ErrInaccessibleType.With(
			slog.String("name", text),
			slog.String("type", t.FullName()),
		)
	}

	return nil
}

func (p *pass) call(ctx context.Context, c *Call) (string, error) {
	switch fn := c.Func.(type) {
	case *Member:
		if len(fn.TypeArgs) > 0 {
			return "", p.notSupported(c)
		}

		recv, err := p.linearize(ctx, fn.Target)
		if err != nil {
			return "", err
		}

		return p.invoke(ctx, recv+"."+fn.Name, c.Args)

	case *Identifier:
		if len(fn.TypeArgs) > 0 {
			return "", p.notSupported(c)
		}

		if p.isParam(fn.Name) {
			return p.invoke(ctx, fn.Name, c.Args)
		}

		return p.implicitCall(ctx, fn.Name, c)

	default:
		return "", p.notSupported(c)
	}
}

// implicitCall qualifies a call to a method of the enclosing type named
// without a receiver.
func (p *pass) implicitCall(ctx context.Context, name string, c *Call) (string, error) {
	enclosing := p.types.EnclosingType()
	this, hasThis := p.types.ThisReference(ctx)
	instance := p.types.HasMethod(enclosing, name, false)
	static := p.types.HasMethod(enclosing, name, true)

	p.logger.TraceContext(ctx, "implicit call",
		slog.String("name", name),
		slog.Bool("this", hasThis),
		slog.Bool("instance", instance),
		slog.Bool("static", static))

	switch {
	case !hasThis && static:
		return p.invoke(ctx, p.types.DisplayTypeName(enclosing)+"."+name, c.Args)

	case hasThis && instance && !static:
		recv, ok := p.symbols.Lookup("this")
		if !ok {
			recv = p.bind(ctx, "this", this, p.renameAll)
		}

		return p.invoke(ctx, recv+"."+name, c.Args)

	case instance && static:
		return "", ErrAmbiguousCall.With(slog.String("name", name))

	default:
		return "", p.notSupported(c)
	}
}

func (p *pass) invoke(ctx context.Context, callee string, args []Node) (string, error) {
	out := make([]string, len(args))

	for i, arg := range args {
		s, err := p.linearize(ctx, arg)
		if err != nil {
			return "", err
		}

		out[i] = s
	}

	return callee + "(" + strings.Join(out, ", ") + ")", nil
}
