// Package remove deletes tasks from a collection.
package remove

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/todo/pkg/app"
)

// Remove deletes task Number, or every completed task when Done is set.
type Remove struct {
	Collection string
	Number     int
	Done       bool

	Service *app.Service
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove, no service")
	}
	faint := color.New(color.Faint)

	if n.Done {
		count, err := n.Service.RemoveDone(ctx, n.Collection)
		if err != nil {
			return err
		}
		_, _ = faint.Fprintf(color.Output, "removed %d done task(s)\n", count)
		return nil
	}

	t, err := n.Service.RemoveTask(ctx, n.Collection, n.Number)
	if err != nil {
		return err
	}
	_, _ = faint.Fprintf(color.Output, "removed %q\n", t.Title)
	return nil
}
