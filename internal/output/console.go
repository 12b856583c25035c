/*
PURPOSE:
  Styled terminal view of a written report, used by 'bee-pagoda show'.

IMPLEMENTATION RULES:
  - Colors come from a lipgloss renderer bound to the output writer.
  - --color always/never force the termenv profile; auto asks the terminal.

RELATED FILES:
  - internal/cli/show.go
*/

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

// ColorMode controls styling of console output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

var statusColors = map[model.Status]lipgloss.Color{
	model.StatusOK:       lipgloss.Color("2"),
	model.StatusDegraded: lipgloss.Color("3"),
	model.StatusSkipped:  lipgloss.Color("8"),
	model.StatusFailed:   lipgloss.Color("1"),
	model.StatusMissing:  lipgloss.Color("5"),
}

// WriteConsole prints a compact styled view of a written report: one line
// per category with its key metrics, followed by the status counts.
func WriteConsole(w io.Writer, s *model.RunSummary, mode ColorMode) error {
	if w == nil {
		return ErrNilWriter
	}

	renderer := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	titleStyle := renderer.NewStyle().Bold(true)
	faintStyle := renderer.NewStyle().Faint(true)
	categoryStyle := renderer.NewStyle().Width(categoryWidth(s.SelectedCategories))

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", s.Profile, s.RunDir)))
	b.WriteByte('\n')
	b.WriteString(faintStyle.Render("generated " + s.GeneratedAt))
	b.WriteByte('\n')

	for _, category := range s.SelectedCategories {
		res, _ := s.Results.Get(category)
		status := res.Status()
		statusStyle := renderer.NewStyle().Width(9)
		if color, ok := statusColors[status]; ok {
			statusStyle = statusStyle.Foreground(color)
		}
		b.WriteString(categoryStyle.Render(category))
		b.WriteByte(' ')
		b.WriteString(statusStyle.Render(string(status)))
		if metrics := model.KeyMetricsString(res); metrics != "" {
			b.WriteByte(' ')
			b.WriteString(metrics)
		}
		b.WriteByte('\n')
	}

	hist := model.Tally(s.Results)
	counts := make([]string, len(model.Statuses))
	for i, status := range model.Statuses {
		text := fmt.Sprintf("%s=%d", status, hist.Get(status))
		if n := hist.Get(status); n > 0 {
			text = renderer.NewStyle().Foreground(statusColors[status]).Render(text)
		}
		counts[i] = text
	}
	b.WriteString(strings.Join(counts, " "))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func categoryWidth(categories []string) int {
	width := 0
	for _, c := range categories {
		width = max(width, len(c))
	}
	return width + 1
}
