package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/transcript"
)

var (
	interviewerLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("[Interviewer]")
	candidateLabel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render("[You]")
	noticeStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func printReply(w io.Writer, reply string) {
	fmt.Fprintf(w, "\n%s %s\n", interviewerLabel, reply)
}

func printNotice(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, noticeStyle.Render(fmt.Sprintf(format, args...)))
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error: "+err.Error()))
}

// printReport renders the report as markdown, falling back to plain text
// when the terminal renderer is unavailable.
func printReport(w io.Writer, r schema.ReportOutput) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		if out, err := renderer.Render(transcript.Markdown(r)); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprintln(w, transcript.Text(r))
}
