package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to render one record.
type palette struct {
	key, str, num, yes, no, span, when lipgloss.Style
	levels                             [4]lipgloss.Style // error, warn, info, debug/trace
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		yes:  fg("2"),
		no:   fg("1"),
		span: fg("5"),
		when: fg("4"),
		levels: [4]lipgloss.Style{
			fg("1").Bold(true),
			fg("3").Bold(true),
			fg("2"),
			fg("4"),
		},
	}
}

// level picks the style for a record level.
func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[0]
	case l >= slog.LevelWarn:
		return p.levels[1]
	case l >= slog.LevelInfo:
		return p.levels[2]
	default:
		return p.levels[3]
	}
}

// prettyTextHandler writes key=value records with colorized values.
// Colors are dropped automatically when the output is not a terminal.
type prettyTextHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	style      palette
	prefix     string // dotted group path for attrs added later
	preformat  []byte // attrs bound by WithAttrs, already rendered
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return &prettyTextHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
		style:      newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.style.when.Render(ts))
		}
	}

	h.space(buf)
	buf.WriteString(h.style.level(r.Level).Render(
		fmt.Sprintf("%-5s", strings.ToUpper(Level(r.Level).String())),
	))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.space(buf)
			buf.WriteString(h.style.key.Render(src.File + ":" + strconv.Itoa(src.Line)))
		}
	}

	h.space(buf)
	buf.WriteString(r.Message)

	if len(h.preformat) > 0 {
		buf.WriteByte(' ')
		buf.Write(h.preformat)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	buf := bytes.NewBuffer(slices.Clone(h.preformat))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.preformat = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyTextHandler) space(buf *bytes.Buffer) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	h.space(buf)
	buf.WriteString(h.style.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	s := h.style

	switch v.Kind() {
	case slog.KindInt64:
		buf.WriteString(s.num.Render(strconv.FormatInt(v.Int64(), 10)))
	case slog.KindUint64:
		buf.WriteString(s.num.Render(strconv.FormatUint(v.Uint64(), 10)))
	case slog.KindFloat64:
		buf.WriteString(s.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)))
	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(s.yes.Render("true"))
		} else {
			buf.WriteString(s.no.Render("false"))
		}
	case slog.KindDuration:
		buf.WriteString(s.span.Render(v.Duration().String()))
	case slog.KindTime:
		buf.WriteString(s.when.Render(h.formatTime(v.Time())))
	default:
		text := v.String()
		if text == "" || strings.ContainsAny(text, " \t\n\"=") {
			text = strconv.Quote(text)
		}

		buf.WriteString(s.str.Render(text))
	}
}
