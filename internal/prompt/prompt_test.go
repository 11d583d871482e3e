package prompt

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestSystemInterpolatesDate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	got := System(now)

	if !strings.Contains(got, "O ano atual é 2025 e o mês atual é Março.") {
		t.Errorf("current date missing:\n%s", got)
	}
	if !strings.Contains(got, "Os dados disponíveis vão de 1997 a 2025.") {
		t.Errorf("data range missing:\n%s", got)
	}
	if !strings.Contains(got, "Consulte o ano de 2024") {
		t.Errorf("default query year must be the previous year:\n%s", got)
	}
	if strings.Contains(got, "%d") || strings.Contains(got, "%s") {
		t.Errorf("unexpanded format verbs left in prompt:\n%s", got)
	}
}

func TestSystemStatesQueryRules(t *testing.T) {
	got := System(time.Now())

	if !strings.Contains(got, "NUNCA 'both'") {
		t.Error("prompt must forbid flow 'both'")
	}
	if !strings.Contains(got, "NUNCA incluem 'year'") {
		t.Error("prompt must forbid 'year' in details and filters")
	}
	if !strings.Contains(got, "ComexStat") {
		t.Error("prompt must name the data source")
	}
}

func TestSystemCoversAllMonths(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		now := time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC)
		got := System(now)
		if !strings.Contains(got, "o mês atual é "+monthNamesPT[m]) {
			t.Errorf("month %s not interpolated", strconv.Itoa(int(m)))
		}
	}
}
