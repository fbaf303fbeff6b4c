package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#D7AF00") // K-System amber
	greenColor   = lipgloss.Color("#00AA00")
	redColor     = lipgloss.Color("#CC0000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(redColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(22)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// Readings above the scale's 0 mark are in the red zone of the meter.
	OverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(redColor)

	UnderStyle = lipgloss.NewStyle().
			Foreground(greenColor)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("K-Meter"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintKeyValue prints one aligned key-value line.
func PrintKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(key), ValueStyle.Render(value))
}

// RenderLevel styles a reading on a K-System scale: green up to the 0
// mark, red above it.
func RenderLevel(k float64) string {
	text := fmt.Sprintf("%+7.2f dB", k)
	if k > 0 {
		return OverStyle.Render(text)
	}

	return UnderStyle.Render(text)
}
