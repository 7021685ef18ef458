package period

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		today   time.Time
		closing int
		want    Period
	}{
		{"after closing moves to next month", date(2025, time.April, 26), 25, Period{time.May, 2025}},
		{"on closing stays", date(2025, time.April, 25), 25, Period{time.April, 2025}},
		{"before closing stays", date(2025, time.April, 3), 25, Period{time.April, 2025}},
		{"december wraps year", date(2025, time.December, 30), 25, Period{time.January, 2026}},
		{"closing 31 in february stays", date(2025, time.February, 28), 31, Period{time.February, 2025}},
		{"unset closing behaves as 1", date(2025, time.June, 2), 0, Period{time.July, 2025}},
		{"first of month with closing 1", date(2025, time.June, 1), 1, Period{time.June, 2025}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.today, tt.closing)
			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestResolve_AllClosingDates(t *testing.T) {
	for closing := 1; closing <= 31; closing++ {
		for day := 1; day <= 31; day++ {
			today := date(2024, time.January, day)
			got := Resolve(today, closing)
			want := Period{time.January, 2024}
			if day > closing {
				want = Period{time.February, 2024}
			}
			if !got.Equal(want) {
				t.Fatalf("closing=%d day=%d: expected %s, got %s", closing, day, want, got)
			}
			if again := Resolve(today, closing); !again.Equal(got) {
				t.Fatalf("closing=%d day=%d: not idempotent", closing, day)
			}
		}
	}
}

func TestPeriod_NextPrev(t *testing.T) {
	p := Period{time.December, 2025}
	if n := p.Next(); !n.Equal(Period{time.January, 2026}) {
		t.Errorf("unexpected next: %s", n)
	}
	if back := p.Next().Prev(); !back.Equal(p) {
		t.Errorf("prev(next(p)) = %s", back)
	}
	if pr := (Period{time.January, 2025}).Prev(); !pr.Equal(Period{time.December, 2024}) {
		t.Errorf("unexpected prev: %s", pr)
	}
}

func TestPeriod_StringAndParse(t *testing.T) {
	p := Period{time.March, 2025}
	if p.String() != "03-2025" {
		t.Errorf("unexpected string %q", p.String())
	}
	if p.MonthParam() != "03" || p.YearParam() != "2025" {
		t.Errorf("unexpected params %q %q", p.MonthParam(), p.YearParam())
	}

	parsed, err := Parse("03-2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(p) {
		t.Errorf("expected %s, got %s", p, parsed)
	}

	for _, bad := range []string{"", "2025", "13-2025", "00-2025", "aa-2025", "03-bb"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestFilter_Params(t *testing.T) {
	p := Period{time.March, 2025}

	monthly := Filter{Mode: ChartMonthly, Period: p}.Params()
	if monthly["month"] != "03" || monthly["year"] != "2025" {
		t.Errorf("unexpected monthly params: %v", monthly)
	}

	yearly := Filter{Mode: ChartYearly, Period: p}.Params()
	if _, ok := yearly["month"]; ok {
		t.Errorf("yearly filter must not carry month: %v", yearly)
	}
}
