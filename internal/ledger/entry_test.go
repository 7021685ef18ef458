package ledger

import (
	"testing"
	"time"

	"kaskita/internal/models"
	"kaskita/internal/money"
)

func common(amount money.Amount) Common {
	return Common{ID: "tx-1", Date: time.Date(2025, 3, 14, 1, 30, 0, 0, time.UTC), Amount: amount, AssetID: "a1"}
}

func TestEffects(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  []Delta
	}{
		{"income", Income{Common: common(100), CategoryID: "c"},
			[]Delta{{TargetAsset, "a1", 100}}},
		{"expense", Expense{Common: common(100), CategoryID: "c"},
			[]Delta{{TargetAsset, "a1", -100}}},
		{"transfer with cost", Transfer{Common: common(100), ToAssetID: "a2", AdditionalCost: 5},
			[]Delta{{TargetAsset, "a1", -105}, {TargetAsset, "a2", 100}}},
		{"saving in", SavingMovement{Common: common(100), SavingID: "s1", Direction: models.ReferenceIn},
			[]Delta{{TargetSaving, "s1", 100}, {TargetAsset, "a1", -100}}},
		{"saving out", SavingMovement{Common: common(100), SavingID: "s1", Direction: models.ReferenceOut},
			[]Delta{{TargetSaving, "s1", -100}, {TargetAsset, "a1", 100}}},
		{"loan payment", LoanPayment{Common: common(100), LoanID: "l1"},
			[]Delta{{TargetLoan, "l1", -100}, {TargetAsset, "a1", -100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entry.Effects()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d deltas, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("delta %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestDisplayAmount(t *testing.T) {
	if DisplayAmount(models.TransactionTypeIncome, 500) != 500 {
		t.Error("income should be positive")
	}
	for _, typ := range []models.TransactionType{
		models.TransactionTypeExpenses, models.TransactionTypeTransfer,
		models.TransactionTypeSaving, models.TransactionTypeLoan,
	} {
		if DisplayAmount(typ, 500) != -500 {
			t.Errorf("%s should be negative", typ)
		}
	}
}

func TestEncode(t *testing.T) {
	e := SavingMovement{Common: common(250000), SavingID: "s1", Direction: models.ReferenceIn}
	form := Encode(e)

	want := map[string]string{
		"id":             "tx-1",
		"type":           "SAVING",
		"date":           "2025-03-14T01:30:00.000Z",
		"amount":         "250000",
		"asset_id":       "a1",
		"reference_id":   "s1",
		"reference_type": "IN",
	}
	for name, value := range want {
		got, ok := form.Get(name)
		if !ok || got != value {
			t.Errorf("field %s: expected %q, got %q (present=%v)", name, value, got, ok)
		}
	}
	if _, ok := form.Get("category_id"); ok {
		t.Error("saving must not submit category_id")
	}
	if form.Values().Get("amount") != "250000" {
		t.Error("Values should mirror the form")
	}
}
