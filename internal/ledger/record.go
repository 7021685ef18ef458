package ledger

import (
	"errors"
	"fmt"
	"time"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
)

var recordTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseRecordTime reads a backend date. Zone-less values are read in loc.
func ParseRecordTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range recordTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ErrUnknownDirection reports a SAVING record that does not say whether it
// paid into or out of the saving.
var ErrUnknownDirection = errors.New("saving record carries no reference_type")

// FromRecord turns a backend record into its variant. ADJUSTMENT entries are
// backend-generated and have no client variant.
func FromRecord(tx models.Transaction, loc *time.Location) (Entry, error) {
	at, err := ParseRecordTime(tx.Date, loc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	common := Common{
		ID:          tx.ID,
		Date:        at,
		Amount:      tx.Amount,
		AssetID:     tx.AssetID,
		Note:        tx.Note,
		Description: tx.Description,
	}

	switch tx.Type {
	case models.TransactionTypeIncome:
		return Income{Common: common, CategoryID: tx.CategoryID}, nil
	case models.TransactionTypeExpenses:
		return Expense{Common: common, CategoryID: tx.CategoryID}, nil
	case models.TransactionTypeTransfer:
		return Transfer{Common: common, ToAssetID: tx.TransferAssetID, AdditionalCost: tx.AdditionalCost}, nil
	case models.TransactionTypeSaving:
		ref := tx.ReferenceID
		if ref.IsZero() && tx.RefSaving != nil {
			ref = tx.RefSaving.ID
		}
		switch tx.ReferenceType {
		case models.ReferenceIn, models.ReferenceOut:
		default:
			return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrMissingField, msgIncomplete), ErrUnknownDirection)
		}
		return SavingMovement{Common: common, SavingID: ref, Direction: tx.ReferenceType}, nil
	case models.TransactionTypeLoan:
		ref := tx.ReferenceID
		if ref.IsZero() && tx.RefLoan != nil {
			ref = tx.RefLoan.ID
		}
		return LoanPayment{Common: common, LoanID: ref}, nil
	}
	return nil, apperrors.Wrap(apperrors.ErrInvalidType, fmt.Errorf("type %q has no client variant", tx.Type))
}

// EditDraft renders a backend record as form input for an edit screen. A
// SAVING record without a direction comes back with ReferenceType empty, so
// the user has to pick it again.
func EditDraft(tx models.Transaction, loc *time.Location) (Draft, error) {
	unknownDir := tx.Type == models.TransactionTypeSaving &&
		tx.ReferenceType != models.ReferenceIn && tx.ReferenceType != models.ReferenceOut
	if unknownDir {
		tx.ReferenceType = models.ReferenceIn
	}
	e, err := FromRecord(tx, loc)
	if err != nil {
		return Draft{}, err
	}
	d := draftFrom(e, loc)
	if unknownDir {
		d.ReferenceType = ""
	}
	return d, nil
}

// CheckTypeChange rejects an edit that would change the type of a saved
// transaction.
func CheckTypeChange(existing models.TransactionType, next Entry) error {
	if existing != "" && existing != next.Type() {
		return apperrors.ErrTypeImmutable
	}
	return nil
}
