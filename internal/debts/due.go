package debts

import (
	"time"

	"github.com/budgetflow/budgetflow/internal/model"
)

// DueSoonDays is the window in which an upcoming due date is flagged.
const DueSoonDays = 7

// DueStatus flags upcoming and missed due dates.
type DueStatus struct {
	DaysUntilDue int
	DueSoon      bool
	Overdue      bool
}

// DueStatusOf reports d's due status as of now. Days are rounded up.
func DueStatusOf(d model.Debt, now time.Time) DueStatus {
	days := model.DaysUntil(d.DueDate, now)
	return DueStatus{
		DaysUntilDue: days,
		DueSoon:      days >= 0 && days <= DueSoonDays,
		Overdue:      days < 0,
	}
}
