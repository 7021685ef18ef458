package ledger

import (
	"fmt"
	"strings"
	"time"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/validator"
)

// msgIncomplete is shown when a required field for the selected type is empty.
const msgIncomplete = "Semua field wajib diisi."

// Draft is the raw transaction form: strings as typed, ids as selected.
// Fields that the selected type does not use are ignored by Build.
type Draft struct {
	ID   models.ID              `json:"id,omitempty"`
	Type models.TransactionType `json:"type" binding:"required,transaction_type"`
	// Date is YYYY-MM-DD and Time is HH:MM or HH:MM:SS, both local.
	Date            string               `json:"date" binding:"required"`
	Time            string               `json:"time,omitempty"`
	Amount          string               `json:"amount" binding:"required,amount_digits"`
	AssetID         models.ID            `json:"asset_id" binding:"required"`
	CategoryID      models.ID            `json:"category_id,omitempty"`
	TransferAssetID models.ID            `json:"transfer_asset_id,omitempty"`
	AdditionalCost  string               `json:"additional_cost,omitempty"`
	ReferenceID     models.ID            `json:"reference_id,omitempty"`
	ReferenceType   models.ReferenceType `json:"reference_type,omitempty"`
	Note            string               `json:"note,omitempty"`
	Description     string               `json:"description,omitempty"`
}

// Build validates the draft for its type and returns the typed entry. It
// never touches the network; a failed build means nothing was submitted.
func (d Draft) Build(loc *time.Location) (Entry, error) {
	switch d.Type {
	case "", models.TransactionTypeIncome, models.TransactionTypeExpenses, models.TransactionTypeTransfer,
		models.TransactionTypeSaving, models.TransactionTypeLoan:
	default:
		return nil, apperrors.ErrInvalidType
	}
	if err := validator.Struct(d); err != nil {
		return nil, incomplete(err)
	}

	at, err := combineDateTime(d.Date, d.Time, loc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidInput, "Tanggal atau jam tidak valid"), err)
	}

	amount, err := money.Parse(d.Amount)
	if err != nil || amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Nominal harus lebih dari 0")
	}

	common := Common{
		ID:          d.ID,
		Date:        at,
		Amount:      money.Amount(amount),
		AssetID:     d.AssetID,
		Note:        strings.TrimSpace(d.Note),
		Description: strings.TrimSpace(d.Description),
	}

	switch d.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpenses:
		if d.CategoryID.IsZero() {
			return nil, missing("category_id")
		}
		if d.Type == models.TransactionTypeIncome {
			return Income{Common: common, CategoryID: d.CategoryID}, nil
		}
		return Expense{Common: common, CategoryID: d.CategoryID}, nil

	case models.TransactionTypeTransfer:
		if d.TransferAssetID.IsZero() {
			return nil, missing("transfer_asset_id")
		}
		if d.TransferAssetID == d.AssetID {
			return nil, apperrors.ErrSameAssetTransfer
		}
		var cost money.Amount
		if strings.TrimSpace(d.AdditionalCost) != "" {
			n, err := money.Parse(d.AdditionalCost)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInvalidAmount, err)
			}
			cost = money.Amount(n)
		}
		return Transfer{Common: common, ToAssetID: d.TransferAssetID, AdditionalCost: cost}, nil

	case models.TransactionTypeSaving:
		if d.ReferenceID.IsZero() {
			return nil, missing("reference_id")
		}
		if err := validator.Var(d.ReferenceType, "required,reference_type"); err != nil {
			return nil, incomplete(err)
		}
		return SavingMovement{Common: common, SavingID: d.ReferenceID, Direction: d.ReferenceType}, nil

	case models.TransactionTypeLoan:
		if d.ReferenceID.IsZero() {
			return nil, missing("reference_id")
		}
		return LoanPayment{Common: common, LoanID: d.ReferenceID}, nil
	}

	return nil, apperrors.ErrInvalidType
}

// draftFrom renders an entry back into form strings.
func draftFrom(e Entry, loc *time.Location) Draft {
	c := e.Core()
	local := c.Date.In(loc)
	d := Draft{
		ID:          c.ID,
		Type:        e.Type(),
		Date:        local.Format("2006-01-02"),
		Time:        local.Format("15:04:05"),
		Amount:      money.Format(c.Amount.Int64()),
		AssetID:     c.AssetID,
		Note:        c.Note,
		Description: c.Description,
	}
	switch v := e.(type) {
	case Income:
		d.CategoryID = v.CategoryID
	case Expense:
		d.CategoryID = v.CategoryID
	case Transfer:
		d.TransferAssetID = v.ToAssetID
		if v.AdditionalCost > 0 {
			d.AdditionalCost = money.Format(v.AdditionalCost.Int64())
		}
	case SavingMovement:
		d.ReferenceID = v.SavingID
		d.ReferenceType = v.Direction
	case LoanPayment:
		d.ReferenceID = v.LoanID
	}
	return d
}

func combineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return day, nil
	}

	var t time.Time
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err = time.Parse(layout, clock); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

func missing(field string) error {
	return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrMissingField, msgIncomplete),
		fmt.Errorf("%s is required for this transaction type", field))
}

func incomplete(err error) error {
	return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrMissingField, msgIncomplete), err)
}
