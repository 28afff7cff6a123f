package notifier

import (
	"fmt"

	"github.com/iho/loantrack/internal/domain"
)

const dateLayout = "02 Jan 2006"

// borrowerReminder builds the upcoming-installment email for the borrower.
func borrowerReminder(loan *domain.Loan, owner, borrower *domain.User) domain.Notification {
	due := loan.NextPaymentDate.UTC()
	subject := fmt.Sprintf("Payment reminder: installment due %s", due.Format(dateLayout))

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your next loan installment is due on %s.\n\n"+
			"Installment amount: %s\n"+
			"Remaining balance:  %s\n"+
			"Lender:             %s\n",
		borrower.Name,
		due.Format(dateLayout),
		loan.MonthlyAmount.StringFixed(2),
		loan.BalanceAmount.StringFixed(2),
		owner.Name,
	)

	if owner.GPayHandle != "" {
		body += fmt.Sprintf("\nYou can pay online via %s.\n", owner.GPayHandle)
	}
	body += "\nPlease ignore this message if you have already paid.\n"

	return domain.Notification{
		Kind:      domain.NotificationBorrowerReminder,
		LoanID:    loan.ID,
		Recipient: borrower.Email,
		Subject:   subject,
		Body:      body,
	}
}

// ownerDueNotice builds the due-today email for the loan owner.
func ownerDueNotice(loan *domain.Loan, owner, borrower *domain.User) domain.Notification {
	due := loan.NextPaymentDate.UTC()
	subject := fmt.Sprintf("Installment due today from %s", borrower.Name)

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"An installment on your loan to %s is due today (%s).\n\n"+
			"Installment amount: %s\n"+
			"Paid so far:        %s\n"+
			"Remaining balance:  %s\n",
		owner.Name,
		borrower.Name,
		due.Format(dateLayout),
		loan.MonthlyAmount.StringFixed(2),
		loan.AmountPaid.StringFixed(2),
		loan.BalanceAmount.StringFixed(2),
	)

	if last := loan.LastPaymentDate; last != nil {
		body += fmt.Sprintf("Last payment:       %s\n", last.UTC().Format(dateLayout))
	}

	return domain.Notification{
		Kind:      domain.NotificationOwnerDueNotice,
		LoanID:    loan.ID,
		Recipient: owner.Email,
		Subject:   subject,
		Body:      body,
	}
}
