package repository

import "errors"

// Rejection is a refused operation with a user-facing title and message.
// A rejected operation leaves the repository unchanged.
type Rejection struct {
	Title   string
	Message string
}

func (e *Rejection) Error() string {
	return e.Message
}

// AsRejection unwraps err to a Rejection, if it is one
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

var (
	ErrNoSelection   = &Rejection{Title: "No Selection", Message: "Please select an item first."}
	ErrMissingFields = &Rejection{Title: "Missing Fields", Message: "Please fill all required fields."}
	ErrEmptyName     = &Rejection{Title: "Invalid Input", Message: "Name cannot be empty."}

	ErrDuplicateCategory = &Rejection{Title: "Duplicate Category", Message: "This category already exists."}
	ErrDuplicatePriority = &Rejection{Title: "Duplicate Priority", Message: "This priority already exists."}
	ErrUnknownCategory   = &Rejection{Title: "Unknown Category", Message: "The selected category does not exist."}
	ErrUnknownPriority   = &Rejection{Title: "Unknown Priority", Message: "The selected priority does not exist."}
	ErrUnknownStatus     = &Rejection{Title: "Unknown Status", Message: "The selected status is not valid."}

	ErrDefaultPriorityTask = &Rejection{Title: "Deletion Not Allowed", Message: "Cannot delete a task with a default priority."}
	ErrDefaultPriority     = &Rejection{Title: "Deletion Not Allowed", Message: "The Default priority cannot be deleted."}

	ErrCompletedTask      = &Rejection{Title: "Invalid Operation", Message: "Cannot add a reminder to a completed task."}
	ErrNoDeadline         = &Rejection{Title: "No Deadline", Message: "The selected task does not have a deadline."}
	ErrIncompleteReminder = &Rejection{Title: "Invalid Reminder", Message: "A reminder needs a name and a date."}

	ErrTaskNotFound     = &Rejection{Title: "Not Found", Message: "task not found"}
	ErrCategoryNotFound = &Rejection{Title: "Not Found", Message: "category not found"}
	ErrPriorityNotFound = &Rejection{Title: "Not Found", Message: "priority not found"}
	ErrReminderNotFound = &Rejection{Title: "Not Found", Message: "reminder not found"}
)
