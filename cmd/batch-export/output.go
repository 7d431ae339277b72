package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/hellenic-development/batch-export/pkg/batch"
)

// cliFormatter renders logrus entries as colored terminal lines.
type cliFormatter struct{}

func (f *cliFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	var c *color.Color
	prefix := ""
	switch e.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		c = color.New(color.Faint)
	case logrus.InfoLevel:
		c = color.New(color.FgYellow)
	case logrus.WarnLevel:
		c = color.New(color.FgYellow)
		prefix = "⚠ "
	default:
		c = color.New(color.FgRed)
		prefix = "✗ "
	}

	b.WriteString(c.Sprint(prefix + e.Message))

	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(" ")
			b.WriteString(color.New(color.FgCyan).Sprint(k + "="))
			fmt.Fprint(&b, e.Data[k])
		}
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// promptPicker asks for the source folder on a terminal. An empty answer
// means nothing was chosen.
type promptPicker struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptPicker(in io.Reader, out io.Writer) *promptPicker {
	return &promptPicker{in: bufio.NewReader(in), out: out}
}

var _ batch.Picker = (*promptPicker)(nil)

func (p *promptPicker) SelectFolder(prompt string) (string, bool, error) {
	fmt.Fprintf(p.out, "%s\n> ", prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}

	dir := strings.TrimSpace(line)
	if dir == "" {
		return "", false, nil
	}
	return dir, true, nil
}
