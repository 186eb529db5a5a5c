// Package mcp provides the Model Context Protocol server integration for todo.
package mcp

import (
	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/collection/viewmodel"
)

// CollectionDTO describes a collection and its task counts.
type CollectionDTO struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Label  string `json:"label"`
	Open   int    `json:"openCount"`
	Done   int    `json:"doneCount"`
	Total  int    `json:"taskCount"`
}

// TaskDTO is a transport-friendly projection of a task. Number is the 1-based
// position tools accept.
type TaskDTO struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func collectionDTO(s viewmodel.Summary) CollectionDTO {
	return CollectionDTO{
		Number: s.Index + 1,
		Title:  s.Title,
		Label:  s.Label(),
		Open:   s.Open,
		Done:   s.Done,
		Total:  s.Total(),
	}
}

func collectionDTOs(sums []viewmodel.Summary) []CollectionDTO {
	out := make([]CollectionDTO, 0, len(sums))
	for _, s := range sums {
		out = append(out, collectionDTO(s))
	}
	return out
}

func taskDTO(r app.Row) TaskDTO {
	return TaskDTO{Number: r.Number, Title: r.Title, Completed: r.Completed}
}

func taskDTOs(rows []app.Row) []TaskDTO {
	out := make([]TaskDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, taskDTO(r))
	}
	return out
}
