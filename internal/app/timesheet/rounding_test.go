package timesheet

import "testing"

func TestRoundHours(t *testing.T) {
	type testcase struct {
		hours     float64
		increment float64
		want      float64
	}

	for name, testcase := range map[string]testcase{
		"negative":                  {hours: -1, increment: 0.5, want: 0},
		"zero":                      {hours: 0, increment: 0.5, want: 0},
		"tiny fraction":             {hours: 0.01, increment: 0.5, want: 0.5},
		"whole hours unchanged":     {hours: 3, increment: 0.5, want: 3},
		"below half":                {hours: 1.2, increment: 0.5, want: 1.5},
		"exactly half":              {hours: 1.5, increment: 0.5, want: 1.5},
		"just above half":           {hours: 1.6, increment: 0.5, want: 2},
		"almost whole":              {hours: 7.99, increment: 0.5, want: 8},
		"just above half by 1e-10":  {hours: 2.5000000001, increment: 0.5, want: 3},
		"tiny positive value":       {hours: 1e-10, increment: 0.5, want: 0.5},
		"representation error":      {hours: 7.1, increment: 0.5, want: 7.5},
		"sum of tenths at half":     {hours: 0.1 + 0.2 + 0.2, increment: 0.5, want: 0.5},
		"quarter increment":         {hours: 1.1, increment: 0.25, want: 1.25},
		"quarter increment above":   {hours: 1.3, increment: 0.25, want: 2},
		"invalid increment default": {hours: 1.2, increment: 0, want: 1.5},
	} {
		t.Run(name, func(t *testing.T) {
			if got := RoundHours(testcase.hours, testcase.increment); got != testcase.want {
				t.Errorf("RoundHours(%v, %v) = %v, want %v", testcase.hours, testcase.increment, got, testcase.want)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	var totals Totals
	if !totals.IsZero() {
		t.Fatal("new totals should be zero")
	}
	totals.Add(8, 0, 1.5)
	totals.Add(4.5, 3.5, 0)

	want := Totals{WorkHours: 12.5, PTOHours: 3.5, ExtraHours: 1.5}
	if totals != want {
		t.Errorf("got %+v, want %+v", totals, want)
	}
}
