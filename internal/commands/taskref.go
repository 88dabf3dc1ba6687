package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"dotask/internal/api"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ResolveTask resolves a task reference against the due-ordered list.
//
// Resolution rules:
//  1. All digits → 1-based position in the list as printed by `dotask list`
//  2. Otherwise → task id, or an unambiguous id prefix
func ResolveTask(tasks []api.Task, ref string) (api.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return api.Task{}, ErrTaskRefRequired
	}

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 || num > len(tasks) {
			return api.Task{}, fmt.Errorf("task number out of range: %s", ref)
		}
		return tasks[num-1], nil
	}

	var matches []api.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return api.Task{}, fmt.Errorf("task not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return api.Task{}, fmt.Errorf("ambiguous task reference: %s", ref)
	}
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
