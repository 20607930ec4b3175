// Package export converts tasks to and from the Google Tasks JSON document
// format (a "tasks#tasks" collection of "tasks#task" items).
//
// Only the document shape is used; nothing here talks to the network.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tasks "google.golang.org/api/tasks/v1"

	"ltask/internal/service"
)

const (
	kindTasks = "tasks#tasks"
	kindTask  = "tasks#task"
)

// Document builds a Google Tasks collection from ts, preserving order.
func Document(ts []service.Task) *tasks.Tasks {
	doc := &tasks.Tasks{
		Kind:  kindTasks,
		Items: make([]*tasks.Task, 0, len(ts)),
	}
	for _, t := range ts {
		doc.Items = append(doc.Items, &tasks.Task{
			Kind:   kindTask,
			Title:  t.Name,
			Status: t.Status(),
		})
	}
	return doc
}

// Write encodes ts as an indented Google Tasks document.
func Write(w io.Writer, ts []service.Task) error {
	data, err := json.MarshalIndent(Document(ts), "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// Read decodes a Google Tasks document. Items without a title are skipped.
func Read(r io.Reader) ([]service.Task, error) {
	var doc tasks.Tasks
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode tasks document: %v", service.ErrInvalidInput, err)
	}
	if doc.Kind != "" && doc.Kind != kindTasks {
		return nil, fmt.Errorf("%w: unexpected document kind %q", service.ErrInvalidInput, doc.Kind)
	}

	out := make([]service.Task, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item == nil {
			continue
		}
		name := service.NormalizeName(item.Title)
		if name == "" {
			continue
		}
		out = append(out, service.Task{
			Name:      name,
			Completed: strings.EqualFold(item.Status, service.StatusCompleted),
		})
	}
	return out, nil
}

// Apply adds every task to svc and applies its completion flag.
// It stops at the first failure and returns how many tasks were applied.
func Apply(ctx context.Context, svc service.Service, ts []service.Task) (int, error) {
	for i, t := range ts {
		if _, err := svc.AddTask(ctx, t.Name); err != nil {
			return i, err
		}
		if t.Completed {
			if _, err := svc.ToggleCompletion(ctx, t.Name, true); err != nil {
				return i, err
			}
		}
	}
	return len(ts), nil
}
