package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	LabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Width(26)
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	PositiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	NegativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	WarnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Money renders an amount, red when negative.
func Money(v float64) string {
	s := FormatMoney(v)
	if v < 0 {
		return NegativeStyle.Render(s)
	}
	return s
}

func FormatMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// Row renders an indented label/value line.
func Row(label, value string) string {
	return "  " + LabelStyle.Render(label) + value
}

// Gauge draws used/limit as a bar of width cells. It turns yellow past 75%
// and red once the limit is reached.
func Gauge(used, limit float64, width int) string {
	if width <= 0 {
		return ""
	}
	ratio := 0.0
	if limit > 0 {
		ratio = used / limit
	}
	ratio = min(max(ratio, 0), 1)
	filled := int(ratio*float64(width) + 0.5)

	style := PositiveStyle
	switch {
	case ratio >= 1:
		style = NegativeStyle
	case ratio >= 0.75:
		style = WarnStyle
	}
	return style.Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", width-filled))
}
