package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Console struct {
	Logger    *slog.Logger
	Out       io.Writer
	Colorized bool
	Progress  bool

	exit func(int)
}

func NewConsole(opts *RichLoggerOptions) *Console {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Console{
		Logger:    NewRichLogger(opts),
		Out:       opts.Output,
		Colorized: opts.EnableColors && !opts.EnableJSON,
		Progress:  opts.EnableProgress && !opts.EnableJSON,
		exit:      os.Exit,
	}
}

func (c *Console) StartTimer(name string) *Timer {
	return &Timer{
		Name:      name,
		StartTime: time.Now(),
		Console:   c,
	}
}

func (c *Console) decorate(icon, color, format string, args []any) string {
	msg := icon + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = color + msg + Reset
	}
	return msg
}

func (c *Console) Success(format string, args ...any) {
	c.Logger.Info(c.decorate("✓ ", Green+Bold, format, args))
}

func (c *Console) Info(format string, args ...any) {
	c.Logger.Info(c.decorate("ℹ ", Blue+Bold, format, args))
}

func (c *Console) Log(format string, args ...any) {
	c.Logger.Info(c.decorate("", White, format, args))
}

func (c *Console) Warn(format string, args ...any) {
	c.Logger.Warn(c.decorate("⚠ ", Yellow+Bold, format, args))
}

func (c *Console) Error(format string, args ...any) {
	c.Logger.Error(c.decorate("✖ ", Red+Bold, format, args))
}

// Fatal logs at error level and exits the process with status 1.
func (c *Console) Fatal(format string, args ...any) {
	c.Logger.Error(c.decorate("💀 ", BgRed+White+Bold, format, args))
	c.exit(1)
}

func (c *Console) NewProgressBar(total int64, label string) *ProgressBar {
	return NewProgressBar(total, label, c.progressOutput())
}

func (c *Console) progressOutput() io.Writer {
	if !c.Progress {
		return io.Discard
	}
	return c.Out
}

func (c *Console) NewTable(headers []string) *Table {
	return NewTable(headers, c.Out)
}

func (c *Console) Box(title string, content string) {
	lines := strings.Split(content, "\n")
	width := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	width += 4

	var sb strings.Builder
	sb.WriteString("┌─" + title + strings.Repeat("─", width-len([]rune(title))) + "─┐\n")
	for _, line := range lines {
		sb.WriteString("│ " + line + strings.Repeat(" ", width-len([]rune(line))) + " │\n")
	}
	sb.WriteString("└" + strings.Repeat("─", width+2) + "┘\n")

	fmt.Fprint(c.Out, sb.String())
}
