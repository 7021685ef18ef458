package budget

import (
	"testing"
	"time"

	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/period"
)

var march2025 = period.Period{Month: time.March, Year: 2025}

func categoryWith(base int64, records ...models.MonthlyBudget) models.TransactionCategory {
	return models.TransactionCategory{
		Base:           models.Base{ID: "cat-1"},
		Type:           models.CategoryTypeExpenses,
		Name:           "Makan",
		BaseBudget:     moneyOf(base),
		MonthlyBudgets: records,
	}
}

func global(amount int64) models.MonthlyBudget {
	return models.MonthlyBudget{ID: "g", Budget: moneyOf(amount), IsGlobal: true}
}

func override(id string, month, year int, amount int64) models.MonthlyBudget {
	return models.MonthlyBudget{ID: models.ID(id), Budget: moneyOf(amount), Month: models.FlexInt(month), Year: models.FlexInt(year)}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		category models.TransactionCategory
		want     int64
		source   Source
	}{
		{"global only", categoryWith(500000, global(500000)), 500000, SourceGlobal},
		{"base budget without global record", categoryWith(500000), 500000, SourceGlobal},
		{"override beats larger global", categoryWith(900000, global(900000), override("m", 3, 2025, 750000)), 750000, SourceOverride},
		{"override beats smaller global", categoryWith(100000, global(100000), override("m", 3, 2025, 750000)), 750000, SourceOverride},
		{"override for other month ignored", categoryWith(500000, global(500000), override("m", 4, 2025, 750000)), 500000, SourceGlobal},
		{"override for other year ignored", categoryWith(500000, global(500000), override("m", 3, 2024, 750000)), 500000, SourceGlobal},
		{"nothing set", categoryWith(0), 0, SourceNone},
		{"first duplicate wins", categoryWith(0, override("a", 3, 2025, 1000), override("b", 3, 2025, 2000)), 1000, SourceOverride},
		{"global record wins over base field", categoryWith(400000, global(450000)), 450000, SourceGlobal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDetail(tt.category, march2025)
			if got.Amount.Int64() != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got.Amount)
			}
			if got.Source != tt.source {
				t.Errorf("expected source %s, got %s", tt.source, got.Source)
			}
			if Resolve(tt.category, march2025) != got.Amount {
				t.Error("Resolve and ResolveDetail disagree")
			}
		})
	}
}

func TestResolve_Scenarios(t *testing.T) {
	t.Run("scenario A: base budget without override", func(t *testing.T) {
		cat := categoryWith(500000, global(500000))
		if got := Resolve(cat, march2025); got != 500000 {
			t.Errorf("expected 500000, got %d", got)
		}
	})

	t.Run("scenario B: march override", func(t *testing.T) {
		cat := categoryWith(500000, global(500000), override("m", 3, 2025, 750000))
		if got := Resolve(cat, march2025); got != 750000 {
			t.Errorf("expected 750000, got %d", got)
		}
	})
}

func TestYearGrid(t *testing.T) {
	cat := categoryWith(500000, global(500000),
		override("mar", 3, 2025, 750000),
		override("dec", 12, 2025, 1000000),
		override("old", 3, 2024, 1),
	)

	grid := YearGrid(cat, 2025)
	for i, cell := range grid {
		if cell.Month != time.Month(i+1) || cell.Year != 2025 {
			t.Fatalf("cell %d has month %d year %d", i, cell.Month, cell.Year)
		}
	}
	if grid[0].Budget != 500000 || grid[0].Override {
		t.Errorf("january should default to global: %+v", grid[0])
	}
	if grid[2].Budget != 750000 || !grid[2].Override || grid[2].RecordID != "mar" {
		t.Errorf("march should carry the override: %+v", grid[2])
	}
	if grid[11].Budget != 1000000 || grid[11].RecordID != "dec" {
		t.Errorf("december should carry the override: %+v", grid[11])
	}
}

func TestNewUsage(t *testing.T) {
	u := NewUsage(400000, 100000)
	if u.Remain != 300000 || u.Percent != 25 {
		t.Errorf("unexpected usage: %+v", u)
	}

	over := NewUsage(100000, 150000)
	if over.Remain != -50000 || over.Percent != 100 {
		t.Errorf("overspend should clamp percent: %+v", over)
	}

	none := NewUsage(0, 150000)
	if none.Percent != 0 {
		t.Errorf("zero budget should give 0 percent: %+v", none)
	}
}

func moneyOf(n int64) money.Amount { return money.Amount(n) }
