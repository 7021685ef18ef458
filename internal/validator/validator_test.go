package validator

import "testing"

type sample struct {
	Type        string `binding:"required,transaction_type"`
	Reference   string `binding:"omitempty,reference_type"`
	Category    string `binding:"omitempty,category_type"`
	ClosingDate int    `binding:"omitempty,closing_date"`
	Currency    string `binding:"omitempty,iso4217"`
	Mode        string `binding:"omitempty,chart_mode"`
	Amount      string `binding:"omitempty,amount_digits"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"valid", sample{Type: "EXPENSES", Reference: "IN", Category: "INCOME", ClosingDate: 25, Currency: "IDR", Mode: "YEARLY", Amount: "1.500"}, false},
		{"adjustment is server only", sample{Type: "ADJUSTMENT"}, true},
		{"lowercase type", sample{Type: "income"}, true},
		{"bad reference", sample{Type: "SAVING", Reference: "SIDEWAYS"}, true},
		{"bad category type", sample{Type: "INCOME", Category: "TRANSFER"}, true},
		{"closing date too large", sample{Type: "INCOME", ClosingDate: 32}, true},
		{"unknown currency", sample{Type: "INCOME", Currency: "XXX"}, true},
		{"bad chart mode", sample{Type: "INCOME", Mode: "DAILY"}, true},
		{"amount without digits", sample{Type: "INCOME", Amount: "Rp ."}, true},
		{"missing type", sample{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestVar(t *testing.T) {
	if err := Var("OUT", "required,reference_type"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Var("", "required,reference_type"); err == nil {
		t.Error("expected an empty direction to fail")
	}
	if err := Var("SIDEWAYS", "required,reference_type"); err == nil {
		t.Error("expected an unknown direction to fail")
	}
}
