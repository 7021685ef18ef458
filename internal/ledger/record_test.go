package ledger

import (
	"errors"
	"testing"
	"time"

	"kaskita/internal/models"
	"kaskita/internal/testutil"
)

func TestFromRecord(t *testing.T) {
	t.Run("saving falls back to embedded reference", func(t *testing.T) {
		tx := models.Transaction{
			Base:          models.Base{ID: "tx-9"},
			Type:          models.TransactionTypeSaving,
			Date:          "2025-03-14T01:30:00.000000Z",
			Amount:        75000,
			AssetID:       "a1",
			ReferenceType: models.ReferenceOut,
			RefSaving:     &models.Saving{Base: models.Base{ID: "s1"}},
		}
		e, err := FromRecord(tx, time.UTC)
		testutil.AssertNoError(t, err)
		sm := e.(SavingMovement)
		if sm.SavingID != "s1" || sm.Direction != models.ReferenceOut {
			t.Errorf("unexpected saving movement: %+v", sm)
		}
	})

	t.Run("saving without direction is not guessed", func(t *testing.T) {
		tx := models.Transaction{
			Type:      models.TransactionTypeSaving,
			Date:      "2025-03-14",
			Amount:    20000,
			AssetID:   "a1",
			RefSaving: &models.Saving{Base: models.Base{ID: "s1"}},
		}
		_, err := FromRecord(tx, time.UTC)
		testutil.AssertAppError(t, err, "MISSING_FIELD")
		if !errors.Is(err, ErrUnknownDirection) {
			t.Errorf("expected ErrUnknownDirection, got %v", err)
		}
	})

	t.Run("zone-less date read in location", func(t *testing.T) {
		tx := models.Transaction{Type: models.TransactionTypeExpenses, Date: "2025-03-14 08:00:00", CategoryID: "c"}
		e, err := FromRecord(tx, jakarta)
		testutil.AssertNoError(t, err)
		if e.Core().Date.UTC().Hour() != 1 {
			t.Errorf("expected 01:00 UTC, got %v", e.Core().Date.UTC())
		}
	})

	t.Run("adjustment has no variant", func(t *testing.T) {
		_, err := FromRecord(models.Transaction{Type: models.TransactionTypeAdjustment, Date: "2025-03-14"}, time.UTC)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := FromRecord(models.Transaction{Type: models.TransactionTypeIncome, Date: "yesterday"}, time.UTC)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCheckTypeChange(t *testing.T) {
	next := Expense{Common: common(1), CategoryID: "c"}
	testutil.AssertNoError(t, CheckTypeChange(models.TransactionTypeExpenses, next))
	testutil.AssertAppError(t, CheckTypeChange(models.TransactionTypeIncome, next), "TYPE_IMMUTABLE")
}

func TestEditDraft(t *testing.T) {
	t.Run("expense prefills every field", func(t *testing.T) {
		tx := models.Transaction{
			Base:       models.Base{ID: "tx-1"},
			Type:       models.TransactionTypeExpenses,
			Date:       "2025-03-14 08:15:00",
			Amount:     1500000,
			AssetID:    "a1",
			CategoryID: "c1",
			Note:       "makan",
		}
		d, err := EditDraft(tx, jakarta)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, d.ID, models.ID("tx-1"), "id")
		testutil.AssertEqual(t, d.Date, "2025-03-14", "date")
		testutil.AssertEqual(t, d.Time, "08:15:00", "time")
		testutil.AssertEqual(t, d.Amount, "1.500.000", "amount")
		testutil.AssertEqual(t, d.CategoryID, models.ID("c1"), "category")
	})

	t.Run("saving without direction leaves it for the user", func(t *testing.T) {
		tx := models.Transaction{
			Base:      models.Base{ID: "tx-2"},
			Type:      models.TransactionTypeSaving,
			Date:      "2025-03-14",
			Amount:    20000,
			AssetID:   "a1",
			RefSaving: &models.Saving{Base: models.Base{ID: "s1"}},
		}
		d, err := EditDraft(tx, jakarta)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, d.ReferenceID, models.ID("s1"), "saving")
		testutil.AssertEqual(t, d.ReferenceType, models.ReferenceType(""), "direction")

		_, err = d.Build(jakarta)
		testutil.AssertAppError(t, err, "MISSING_FIELD")
	})
}
