package info

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
	"tableflip.dev/todo/pkg/settings"
	"tableflip.dev/todo/pkg/store"
)

// Info prints where data and settings live and what the data file holds.
type Info struct {
	Env     *app.Env
	Service *app.Service
}

func (n *Info) Do(ctx context.Context) error {
	if n.Env == nil || n.Service == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	bold := color.New(color.Bold)

	if override := os.Getenv("TODO_CONFIG_PATH"); override != "" {
		tbl.AddRow(bold.Sprint("TODO_CONFIG_PATH"), override)
	} else {
		tbl.AddRow(bold.Sprint("TODO_CONFIG_PATH"), "not set")
	}
	tbl.AddRow(bold.Sprint("App id"), n.Env.Config.AppID())

	data := "in memory, changes are not saved"
	if n.Env.Gateway != nil {
		data = n.Env.Gateway.Path()
	} else if dir, err := store.ResolveDir(n.Env.Config); err == nil {
		data = fmt.Sprintf("%s (unavailable)", dir)
	}
	tbl.AddRow(bold.Sprint("Data file"), data)

	prefs := "unavailable"
	if s, ok := n.Env.Settings.Settings(); ok {
		prefs = s.Path()
		tbl.AddRow(bold.Sprint("Settings"), prefs)
		tbl.AddRow(bold.Sprint("Filter"), s.String(settings.Filter))
		tbl.AddRow(bold.Sprint("Autosave"), fmt.Sprintf("%t every %ds", s.Bool(settings.Autosave), s.Int(settings.AutosaveIntervalSecs)))
	} else {
		tbl.AddRow(bold.Sprint("Settings"), prefs)
	}
	tbl.AddRow(bold.Sprint("Close timeout"), n.Env.Config.CloseTimeout())

	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")

	sums, err := n.Service.Collections(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Collections(sums)
	return nil
}
