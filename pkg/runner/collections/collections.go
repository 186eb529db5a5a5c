// Package collections contains runners for collection management commands.
package collections

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
)

// New configures the parameters for `todo collections new`.
type New struct {
	Title   string
	Service *app.Service
}

// Do creates the collection.
func (n *New) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not create collection, no service")
	}
	sum, err := n.Service.CreateCollection(ctx, n.Title)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "Created collection %q (#%d)\n", sum.Title, sum.Index+1)
	return nil
}

// List configures `todo collections list`.
type List struct {
	Service *app.Service
	Printer *printers.PrettyPrint
}

// Do prints a summary table.
func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errors.New("can not list collections, no service")
	}
	sums, err := l.Service.Collections(ctx)
	if err != nil {
		return err
	}
	pp := l.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Collections(sums)
	return nil
}
