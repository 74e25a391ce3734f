package valuation

import "testing"

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{EUR(1005), "€1,005.00"},
		{EUR(-105), "-€105.00"},
		{USD(0.5), "$0.50"},
		{M(1000, "JPY"), "¥1,000"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("-1000.50", "EUR")
	if err != nil {
		t.Fatalf("ParseMoney() failed: %v", err)
	}
	if !m.Equal(EUR(-1000.5)) {
		t.Errorf("ParseMoney() = %s, want €-1000.50", m)
	}
	if _, err := ParseMoney("12,5", "EUR"); err == nil {
		t.Error("ParseMoney() accepted a comma decimal separator")
	}
}

func TestMoneyAdd(t *testing.T) {
	sum := EUR(10).Add(EUR(2.5))
	if !sum.Equal(EUR(12.5)) {
		t.Errorf("Add() = %s, want €12.50", sum)
	}
	// The zero Money is a weak operand: the sum adopts the other currency.
	sum = Money{}.Add(USD(5))
	if sum.Currency() != "USD" || !sum.Equal(USD(5)) {
		t.Errorf("zero + $5 = %s, want $5.00", sum)
	}
}
