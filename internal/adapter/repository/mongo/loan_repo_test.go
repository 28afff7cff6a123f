package mongo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/loantrack/internal/domain"
)

func TestLoanDocRoundTrip(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	loan, err := domain.NewLoan("loan-1", "owner-1", "borrower-1",
		decimal.RequireFromString("10000.50"), decimal.RequireFromString("12.5"), 12, start)
	require.NoError(t, err)

	require.NoError(t, loan.ApplyPayment(domain.PaymentRecord{
		ID:            "pay-1",
		Amount:        decimal.RequireFromString("937.55"),
		Date:          start.AddDate(0, 1, 0),
		Method:        domain.PaymentMethodCash,
		TransactionID: "txn-1",
		Notes:         "first installment",
	}))
	loan.Version = 3

	got, err := fromDoc(toDoc(loan))
	require.NoError(t, err)

	require.Equal(t, loan.ID, got.ID)
	require.Equal(t, loan.OwnerID, got.OwnerID)
	require.Equal(t, loan.BorrowerID, got.BorrowerID)
	require.Equal(t, loan.DurationMonths, got.DurationMonths)
	require.Equal(t, loan.Status, got.Status)
	require.Equal(t, loan.Version, got.Version)

	require.True(t, got.Principal.Equal(loan.Principal))
	require.True(t, got.InterestRate.Equal(loan.InterestRate))
	require.True(t, got.TotalAmount.Equal(loan.TotalAmount))
	require.True(t, got.MonthlyAmount.Equal(loan.MonthlyAmount))
	require.True(t, got.AmountPaid.Equal(loan.AmountPaid))
	require.True(t, got.BalanceAmount.Equal(loan.BalanceAmount))

	require.True(t, got.NextPaymentDate.Equal(loan.NextPaymentDate))
	require.NotNil(t, got.LastPaymentDate)
	require.True(t, got.LastPaymentDate.Equal(*loan.LastPaymentDate))

	require.Len(t, got.PaymentHistory, 1)
	require.Equal(t, "pay-1", got.PaymentHistory[0].ID)
	require.Equal(t, domain.PaymentMethodCash, got.PaymentHistory[0].Method)
	require.True(t, got.PaymentHistory[0].Amount.Equal(decimal.RequireFromString("937.55")))
}

func TestFromDocRejectsCorruptAmount(t *testing.T) {
	loan, err := domain.NewLoan("loan-1", "owner-1", "borrower-1",
		decimal.NewFromInt(1000), decimal.NewFromInt(10), 10,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	doc := toDoc(loan)
	doc.BalanceAmount = "not-a-number"

	_, err = fromDoc(doc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "balance_amount")
}
