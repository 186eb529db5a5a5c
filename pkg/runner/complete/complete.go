package complete

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/todo/pkg/app"
)

// Complete marks a task done, or open again when Reopen is set.
type Complete struct {
	Collection string
	Number     int
	Reopen     bool

	Service *app.Service
}

func (n *Complete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not complete, no service")
	}
	row, err := n.Service.SetCompleted(ctx, n.Collection, n.Number, !n.Reopen)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "%s %s\n", row.Mark(), row.Title)
	return nil
}
