package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/lambdaeval/frame"
	"github.com/ardnew/lambdaeval/log"
)

const defaultEditor = "vi"

// editFrameCommand implements [tea.ExecCommand] for the frame
// edit-load-retry loop. It writes the current frame to a temp file, opens the
// user's editor, and loads the result. On a load error the user is prompted
// to re-edit; declining exits the program.
type editFrameCommand struct {
	frame    *frame.Frame
	ctxFunc  func() context.Context
	newFrame *frame.Frame
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editFrameCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editFrameCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editFrameCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. An emptied file cancels the edit.
// If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editFrameCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.frame.Encode(&buf); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "lambdaeval-frame-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		data, err := c.edit(ctx, path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		next, loadErr := frame.Load(bytes.NewReader(data), frame.WithLogger(c.logger))
		c.logger.TraceContext(
			ctx,
			"editor load attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.newFrame = next

			return nil
		}

		fmt.Fprintf(c.stderr, "\nLoad error: %s\n", loadErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = data
	}
}

// edit runs the user's editor on path and returns the edited content.
func (c *editFrameCommand) edit(ctx context.Context, path string) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
