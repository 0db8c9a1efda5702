package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lambdaeval/lang"
)

// Output formats.
const (
	outputText = "text"
	outputYAML = "yaml"
	outputJSON = "json"
)

// indent is the indent width of structured output.
const indent = 2

// report is the structured form of a [lang.Result].
type report struct {
	Text     string    `json:"text"               yaml:"text"`
	Body     string    `json:"body"               yaml:"body"`
	Pass     string    `json:"pass"               yaml:"pass"`
	Params   []string  `json:"params"             yaml:"params"`
	Bindings []capture `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// capture is one binding of a [report].
type capture struct {
	Name   string `json:"name"           yaml:"name"`
	Source string `json:"source"         yaml:"source"`
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Flags  string `json:"flags"          yaml:"flags"`
}

func makeReport(res *lang.Result) report {
	r := report{
		Text:   res.Text,
		Body:   res.Body,
		Pass:   res.PassID.String(),
		Params: res.Params,
	}

	if r.Params == nil {
		r.Params = []string{}
	}

	for _, b := range res.Bindings {
		r.Bindings = append(r.Bindings, makeCapture(b))
	}

	return r
}

func makeCapture(b lang.Binding) capture {
	c := capture{Name: b.Name, Source: b.Name}

	if b.Value == nil {
		return c
	}

	if p, ok := b.Value.(interface{ Path() string }); ok {
		c.Source = p.Path()
	}

	if t := b.Value.Type(); t != nil {
		c.Type = t.FullName()
	}

	c.Flags = b.Value.Flags().String()

	return c
}

// writeResult renders res to w in the named output format.
func writeResult(w io.Writer, format string, res *lang.Result) error {
	r := makeReport(res)

	switch format {
	case "", outputText:
		var sb strings.Builder

		sb.WriteString(r.Text)
		sb.WriteByte('\n')

		for _, c := range r.Bindings {
			fmt.Fprintf(&sb, "  %s = %s", c.Name, c.Source)

			if c.Type != "" {
				fmt.Fprintf(&sb, " (%s)", c.Type)
			}

			sb.WriteByte('\n')
		}

		_, err := io.WriteString(w, sb.String())

		return err

	case outputYAML:
		return writeYAML(w, r)

	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", indent))

		if err := enc.Encode(r); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	default:
		return ErrOutput.With(slog.String("format", format))
	}
}

func writeYAML(w io.Writer, v any) error {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(indent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(out)

	return err
}

// formatValue renders the result of an invocation.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
