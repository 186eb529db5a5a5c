package get

import (
	"context"
	"errors"
	"strconv"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/printers"
)

// Get prints the tasks of one collection, or of every collection when
// Collection is empty.
type Get struct {
	Collection string
	Filter     filter.Preference
	ShowNumber bool
	Service    *app.Service

	Printer *printers.PrettyPrint
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.ShowNumbers = n.ShowNumber
	pp.NewLine()

	if n.Collection != "" {
		return n.print(ctx, pp, n.Collection)
	}

	sums, err := n.Service.Collections(ctx)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		pp.Collections(nil)
		return nil
	}
	for _, s := range sums {
		if err := n.print(ctx, pp, "#"+strconv.Itoa(s.Index+1)); err != nil {
			return err
		}
	}
	return nil
}

func (n *Get) print(ctx context.Context, pp *printers.PrettyPrint, ref string) error {
	c, rows, pref, err := n.Service.Tasks(ctx, ref, n.Filter)
	if err != nil {
		return err
	}
	pp.TitleWithCount(c.Title, len(rows), pref)
	pp.Tasks(rows...)
	return nil
}
