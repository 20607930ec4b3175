package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"ltask/internal/service"
)

// TaskRef represents a parsed task reference.
//
// A reference is the task name, given as one or more words. When no task
// has that exact name and the reference is all digits, it is a 1-based
// position in the full task list (as printed by list).
type TaskRef struct {
	Name   string // joined, trimmed arguments
	Num    int    // 1-based position, valid when HasNum
	HasNum bool   // true if Name is all digits
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
func ParseTaskRef(args []string) (TaskRef, error) {
	name := service.NormalizeName(strings.Join(args, " "))
	if name == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := TaskRef{Name: name}
	if isAllDigits(name) {
		num, err := strconv.Atoi(name)
		if err == nil {
			ref.Num = num
			ref.HasNum = true
		}
	}
	return ref, nil
}

// ResolveTaskRef finds the task a reference points at.
// An exact name match wins over a position.
func ResolveTaskRef(svc service.Service, ref TaskRef) (service.Task, error) {
	if task, ok := svc.Lookup(ref.Name); ok {
		return task, nil
	}
	if ref.HasNum {
		tasks := svc.ListTasks()
		if ref.Num < 1 || ref.Num > len(tasks) {
			return service.Task{}, fmt.Errorf("%w: task number out of range: %d", service.ErrNotFound, ref.Num)
		}
		return tasks[ref.Num-1], nil
	}
	return service.Task{}, fmt.Errorf("%w: %s", service.ErrNotFound, ref.Name)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
