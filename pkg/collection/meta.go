package collection

import (
	"encoding/json"

	"tableflip.dev/todo/pkg/task"
)

// Record is the persisted form of a collection.
type Record struct {
	Title string      `json:"title"`
	Tasks []task.Task `json:"tasks"`
}

// MarshalList serialises records as a JSON array. Tasks are always encoded as
// an array, never null.
func MarshalList(records []Record) ([]byte, error) {
	out := make([]Record, len(records))
	for i, r := range records {
		if r.Tasks == nil {
			r.Tasks = []task.Task{}
		}
		out[i] = r
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalList deserialises a JSON array of records. Empty input yields an
// empty list; missing or null tasks decode as empty.
func UnmarshalList(data []byte) ([]Record, error) {
	if len(data) == 0 {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	for i := range records {
		if records[i].Tasks == nil {
			records[i].Tasks = []task.Task{}
		}
	}
	return records, nil
}
