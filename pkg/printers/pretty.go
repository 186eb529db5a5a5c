package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/collection/viewmodel"
	"tableflip.dev/todo/pkg/filter"
)

type PrettyPrint struct {
	// ShowNumbers prefixes each task with the number commands accept.
	ShowNumbers bool

	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("999  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowNumbers {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, pref filter.Preference) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowNumbers {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	noun := " tasks"
	if count == 1 {
		noun = " task"
	}
	if pref != "" && pref != filter.All {
		noun += " (" + strings.ToLower(string(pref)) + ")"
	}
	_, _ = c.Fprintln(pp.out(), noun)
}

func (pp *PrettyPrint) Tasks(rows ...app.Row) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowNumbers {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	t := color.New()
	d := color.New(color.Faint, color.CrossedOut)
	y := color.New(color.FgHiYellow, color.Faint)

	for _, r := range rows {
		if pp.ShowNumbers {
			n := strconv.Itoa(r.Number)
			_, _ = y.Fprint(pp.out(), n)
			_, _ = fmt.Fprint(pp.out(), strings.Repeat(" ", len(spacing)-len(n)))
		}
		if r.Completed {
			_, _ = t.Fprintf(pp.out(), "%s ", r.Mark())
			_, _ = d.Fprintln(pp.out(), r.Title)
			continue
		}
		_, _ = t.Fprintf(pp.out(), "%s %s\n", r.Mark(), r.Title)
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Collections renders a table of collection summaries.
func (pp *PrettyPrint) Collections(sums []viewmodel.Summary) {
	bold := color.New(color.Bold)
	if len(sums) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), "no collections")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Collection"), bold.Sprint("Open"), bold.Sprint("Done"))
	for _, s := range sums {
		tbl.AddRow(s.Index+1, s.Label(), s.Open, s.Done)
	}
	tbl.RightAlign(0)
	tbl.RightAlign(2)
	tbl.RightAlign(3)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Notice prints a warning line.
func (pp *PrettyPrint) Notice(msg string) {
	_, _ = color.New(color.FgYellow).Fprintln(pp.out(), msg)
}
