// Package preference reads and changes the stored task filter.
package preference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/settings"
)

// Preference prints the filter, or stores Value when it is set.
type Preference struct {
	Value   string
	Service *app.Service
}

func (p *Preference) Do(ctx context.Context) error {
	if p.Service == nil {
		return errors.New("can not change filter, no service")
	}
	if strings.TrimSpace(p.Value) == "" {
		_, _ = fmt.Fprintln(color.Output, p.Service.Preference(ctx))
		return nil
	}

	pref, err := filter.ParsePreference(p.Value)
	if err != nil {
		// Command line input is strict; only stored values fall back to All.
		return err
	}
	if err := p.Service.SetPreference(ctx, pref); err != nil {
		if errors.Is(err, settings.ErrSchemaMissing) {
			return fmt.Errorf("filter not saved: %w", err)
		}
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "filter set to %s\n", pref)
	return nil
}
