package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestComputeTerms(t *testing.T) {
	tests := []struct {
		name        string
		principal   decimal.Decimal
		rate        decimal.Decimal
		duration    int
		wantTotal   string
		wantMonthly string
		expectError bool
	}{
		{
			name:        "ten percent over ten months",
			principal:   decimal.NewFromInt(10000),
			rate:        decimal.NewFromInt(10),
			duration:    10,
			wantTotal:   "11000",
			wantMonthly: "1100",
		},
		{
			name:        "zero interest",
			principal:   decimal.NewFromInt(1200),
			rate:        decimal.Zero,
			duration:    12,
			wantTotal:   "1200",
			wantMonthly: "100",
		},
		{
			name:        "zero principal",
			principal:   decimal.Zero,
			rate:        decimal.NewFromInt(5),
			duration:    6,
			wantTotal:   "0",
			wantMonthly: "0",
		},
		{
			name:        "negative principal rejected",
			principal:   decimal.NewFromInt(-1),
			rate:        decimal.NewFromInt(5),
			duration:    6,
			expectError: true,
		},
		{
			name:        "rate above 100 rejected",
			principal:   decimal.NewFromInt(1000),
			rate:        decimal.NewFromInt(101),
			duration:    6,
			expectError: true,
		},
		{
			name:        "negative rate rejected",
			principal:   decimal.NewFromInt(1000),
			rate:        decimal.NewFromInt(-1),
			duration:    6,
			expectError: true,
		},
		{
			name:        "zero duration rejected",
			principal:   decimal.NewFromInt(1000),
			rate:        decimal.NewFromInt(5),
			duration:    0,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, monthly, err := ComputeTerms(tt.principal, tt.rate, tt.duration)

			if tt.expectError {
				if !errors.Is(err, ErrInvalidTerms) {
					t.Fatalf("expected ErrInvalidTerms, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", total, tt.wantTotal)
			}
			if !monthly.Equal(decimal.RequireFromString(tt.wantMonthly)) {
				t.Errorf("monthly = %s, want %s", monthly, tt.wantMonthly)
			}
		})
	}
}

func TestComputeTermsMonthlyTimesDurationApproximatesTotal(t *testing.T) {
	principal := decimal.NewFromInt(10000)
	rate := decimal.NewFromFloat(7.5)

	for _, duration := range []int{1, 3, 7, 11, 12, 36} {
		total, monthly, err := ComputeTerms(principal, rate, duration)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		diff := monthly.Mul(decimal.NewFromInt(int64(duration))).Sub(total).Abs()
		if diff.GreaterThan(decimal.NewFromFloat(0.01)) {
			t.Errorf("duration %d: monthly*duration differs from total by %s", duration, diff)
		}
	}
}

func TestAdvanceOneMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "plain mid-month",
			in:   time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 clamps to feb 29 in leap year",
			in:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 clamps to feb 28 in non-leap year",
			in:   time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "mar 31 clamps to apr 30",
			in:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "december wraps to january",
			in:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "time of day preserved",
			in:   time.Date(2024, time.August, 30, 13, 45, 30, 0, time.UTC),
			want: time.Date(2024, time.September, 30, 13, 45, 30, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdvanceOneMonth(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("AdvanceOneMonth(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
