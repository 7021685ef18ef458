package ledger

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"time"
)

// wireTimeLayout is the ISO-8601 UTC form the backend expects for dates.
const wireTimeLayout = "2006-01-02T15:04:05.000Z"

// Field is one multipart form field.
type Field struct {
	Name  string
	Value string
}

// Form is the ordered field set submitted for a create or edit.
type Form []Field

// Get returns the value of the named field.
func (f Form) Get(name string) (string, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Values converts the form to url.Values.
func (f Form) Values() url.Values {
	v := url.Values{}
	for _, field := range f {
		v.Add(field.Name, field.Value)
	}
	return v
}

// WriteTo writes every field into a multipart writer.
func (f Form) WriteTo(w *multipart.Writer) error {
	for _, field := range f {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return fmt.Errorf("writing field %s: %w", field.Name, err)
		}
	}
	return nil
}

// Encode renders an entry into the multipart field set. Amounts are plain
// integer strings and the date is ISO-8601 in UTC.
func Encode(e Entry) Form {
	c := e.Core()
	var form Form
	if !c.ID.IsZero() {
		form = append(form, Field{"id", c.ID.String()})
	}
	form = append(form,
		Field{"type", string(e.Type())},
		Field{"date", FormatWireTime(c.Date)},
		Field{"amount", c.Amount.String()},
		Field{"asset_id", c.AssetID.String()},
	)
	if c.Note != "" {
		form = append(form, Field{"note", c.Note})
	}
	if c.Description != "" {
		form = append(form, Field{"description", c.Description})
	}
	return append(form, e.variantFields()...)
}

// FormatWireTime renders t the way the backend stores transaction dates.
func FormatWireTime(t time.Time) string {
	return t.UTC().Format(wireTimeLayout)
}

func (e Income) variantFields() []Field {
	return []Field{{"category_id", e.CategoryID.String()}}
}

func (e Expense) variantFields() []Field {
	return []Field{{"category_id", e.CategoryID.String()}}
}

func (e Transfer) variantFields() []Field {
	fields := []Field{{"transfer_asset_id", e.ToAssetID.String()}}
	if e.AdditionalCost > 0 {
		fields = append(fields, Field{"additional_cost", e.AdditionalCost.String()})
	}
	return fields
}

func (e SavingMovement) variantFields() []Field {
	return []Field{
		{"reference_id", e.SavingID.String()},
		{"reference_type", string(e.Direction)},
	}
}

func (e LoanPayment) variantFields() []Field {
	return []Field{{"reference_id", e.LoanID.String()}}
}
