package domain

import (
	"fmt"
	"time"
)

// NotificationKind identifies the two reminder flavors the scheduler emits.
type NotificationKind string

const (
	// NotificationBorrowerReminder goes to the borrower when the next
	// installment is due within the coming week.
	NotificationBorrowerReminder NotificationKind = "borrower_reminder"

	// NotificationOwnerDueNotice goes to the owner on the day an
	// installment falls due.
	NotificationOwnerDueNotice NotificationKind = "owner_due_notice"
)

// DedupKey builds the at-most-once key for one notification kind on one
// loan's current cycle. NextPaymentDate moves forward when a payment is
// recorded, so the key resets naturally once the cycle advances.
func DedupKey(loanID string, nextPaymentDate time.Time, kind NotificationKind) string {
	return fmt.Sprintf("%s:%s:%s", loanID, nextPaymentDate.UTC().Format(time.RFC3339), kind)
}

// Notification is a rendered message ready for the gateway.
type Notification struct {
	Kind      NotificationKind
	LoanID    string
	Recipient string
	Subject   string
	Body      string
}
