package add

import (
	"context"
	"errors"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/printers"
)

// Add appends a task to a collection and prints the collection.
type Add struct {
	Collection string
	Title      string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	if _, err := n.Service.AddTask(ctx, n.Collection, n.Title); err != nil {
		return err
	}

	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{ShowNumbers: true}
	}
	c, rows, _, err := n.Service.Tasks(ctx, n.Collection, filter.All)
	if err != nil {
		return err
	}
	pp.Title(c.Title)
	pp.Tasks(rows...)
	return nil
}
