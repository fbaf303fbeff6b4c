package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				MarginTop(1)

	helpNameStyle = lipgloss.NewStyle().
			Foreground(greenColor).
			Bold(true)

	helpHintStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// helpRow is one line of a help section: a flag or argument name, its
// help text and a hint listing choices and the default.
type helpRow struct {
	name string
	help string
	hint string
}

// StyledHelpPrinter renders kong help as aligned, coloured sections. Enum
// choices and defaults are shown next to each argument and flag.
func StyledHelpPrinter(title, description string) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		node := ctx.Model.Node

		var sb strings.Builder
		sb.WriteString(TitleStyle.Render(title) + "\n")
		sb.WriteString(helpHintStyle.Render(description) + "\n")

		writeSection(&sb, "Usage:", []helpRow{{name: usage(ctx.Model.Name, node)}})
		writeSection(&sb, "Arguments:", argumentRows(node))
		writeSection(&sb, "Flags:", flagRows(node))
		sb.WriteString("\n")

		_, err := fmt.Fprint(ctx.Stdout, sb.String())

		return err
	}
}

func usage(name string, node *kong.Node) string {
	parts := []string{name, "[flags]"}
	for _, arg := range node.Positional {
		parts = append(parts, arg.Summary())
	}

	return strings.Join(parts, " ")
}

func writeSection(sb *strings.Builder, heading string, rows []helpRow) {
	if len(rows) == 0 {
		return
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}

	sb.WriteString(helpSectionStyle.Render(heading) + "\n")

	for _, r := range rows {
		sb.WriteString("  ")

		if r.help == "" && r.hint == "" {
			sb.WriteString(helpNameStyle.Render(r.name) + "\n")
			continue
		}

		sb.WriteString(helpNameStyle.Render(fmt.Sprintf("%-*s", width, r.name)))
		sb.WriteString("  " + r.help)

		if r.hint != "" {
			sb.WriteString(" " + helpHintStyle.Render("("+r.hint+")"))
		}

		sb.WriteString("\n")
	}
}

func argumentRows(node *kong.Node) []helpRow {
	rows := make([]helpRow, 0, len(node.Positional))
	for _, arg := range node.Positional {
		rows = append(rows, helpRow{name: arg.Summary(), help: arg.Help, hint: valueHint(arg)})
	}

	return rows
}

func flagRows(node *kong.Node) []helpRow {
	rows := []helpRow{{name: "-h, --help", help: "Show this help."}}

	for _, f := range node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		name := "    --" + f.Name
		if f.Short != 0 {
			name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() {
			name += "=" + strings.ToUpper(f.Name)
		}

		rows = append(rows, helpRow{name: name, help: f.Help, hint: valueHint(f.Value)})
	}

	return rows
}

// valueHint lists the enum choices and the default of v, if any.
func valueHint(v *kong.Value) string {
	var hints []string

	if v.Enum != "" {
		hints = append(hints, strings.Join(v.EnumSlice(), "|"))
	}
	if v.HasDefault && v.Default != "" {
		hints = append(hints, "default: "+v.Default)
	}

	return strings.Join(hints, ", ")
}
