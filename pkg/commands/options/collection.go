// Package options defines shared flag helpers for CLI commands.
package options

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// CollectionOptions captures the collection a command works on and, for
// task commands, the task number.
type CollectionOptions struct {
	Collection string
	Number     int
}

// ParseCollectionTask reads "<collection> <n>" arguments. The collection may
// span several words.
func (o *CollectionOptions) ParseCollectionTask(args []string) error {
	if len(args) < 2 {
		return errors.New("requires a collection and a task number")
	}
	n, err := strconv.Atoi(args[len(args)-1])
	if err != nil || n < 1 {
		return errors.New("task number must be a positive integer")
	}
	o.Number = n
	o.Collection = strings.Join(args[:len(args)-1], " ")
	return nil
}

// ParseCollection reads a collection that may span several words.
func (o *CollectionOptions) ParseCollection(args []string) error {
	if len(args) < 1 {
		return errors.New("requires a collection")
	}
	o.Collection = strings.Join(args, " ")
	return nil
}

// AddCollectionArgs wires the --collection flag on the provided command.
func AddCollectionArgs(cmd *cobra.Command, o *CollectionOptions, def string) {
	cmd.Flags().StringVarP(&o.Collection, "collection", "c", def,
		"Specify the collection by title, or #N for the N-th collection.")
}
