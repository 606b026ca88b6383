package budget

import "fmt"

// ToDoTask is a follow-up reminder raised by a reconciliation, such as an
// auto-matching reference requiring a new rule or a suspected duplicate
// statement transaction. Tasks are surfaced to the user but are not part of
// the ledger's persisted monetary state.
type ToDoTask struct {
	Description     string
	Reference       string // optional correlation token the task points at
	SystemGenerated bool
}

func newTaskf(reference string, format string, args ...any) ToDoTask {
	return ToDoTask{
		Description:     fmt.Sprintf(format, args...),
		Reference:       reference,
		SystemGenerated: true,
	}
}
