package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		catType  CategoryType
		expected decimal.Decimal
	}{
		{"income is positive", decimal.NewFromInt(100), CategoryTypeIncome, decimal.NewFromInt(100)},
		{"expense is negative", decimal.NewFromInt(100), CategoryTypeExpense, decimal.NewFromInt(-100)},
		{"zero income", decimal.Zero, CategoryTypeIncome, decimal.Zero},
		{"zero expense", decimal.Zero, CategoryTypeExpense, decimal.Zero},
		{"fractional expense", decimal.RequireFromString("12.34"), CategoryTypeExpense, decimal.RequireFromString("-12.34")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedAmount(tt.amount, tt.catType)
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCategoryTypeIsValid(t *testing.T) {
	if !CategoryTypeIncome.IsValid() {
		t.Error("Expected INCOME to be valid")
	}
	if !CategoryTypeExpense.IsValid() {
		t.Error("Expected EXPENSE to be valid")
	}
	if CategoryType("TRANSFER").IsValid() {
		t.Error("Expected TRANSFER to be invalid")
	}
	if CategoryType("income").IsValid() {
		t.Error("Expected lowercase income to be invalid")
	}
}
