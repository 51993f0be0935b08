package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCountDays(t *testing.T) {
	cases := []struct {
		name      string
		from, to  string
		isHalfDay bool
		want      string
	}{
		{"single weekday", "2025-06-16", "2025-06-16", false, "1"},
		{"full work week", "2025-06-16", "2025-06-20", false, "5"},
		{"spans a weekend", "2025-06-19", "2025-06-24", false, "4"},
		{"weekend only", "2025-06-21", "2025-06-22", false, "0"},
		{"half day", "2025-06-16", "2025-06-16", true, "0.5"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CountDays(date(c.from), date(c.to), c.isHalfDay)
			assert.True(t, got.Equal(decimal.RequireFromString(c.want)),
				"CountDays = %s, want %s", got, c.want)
		})
	}
}

func TestBalanceAvailable(t *testing.T) {
	b := Balance{
		Allocated:    decimal.NewFromInt(12),
		CarryForward: decimal.NewFromInt(3),
		Used:         decimal.NewFromInt(4),
		Pending:      decimal.RequireFromString("1.5"),
		Encashed:     decimal.NewFromInt(2),
	}
	assert.True(t, b.Available().Equal(decimal.RequireFromString("7.5")))
}

func TestBalanceMutators(t *testing.T) {
	b := Balance{Allocated: decimal.NewFromInt(10)}
	days := decimal.RequireFromString("2.5")

	b.Reserve(days)
	assert.True(t, b.Pending.Equal(days))
	assert.True(t, b.Available().Equal(decimal.RequireFromString("7.5")))

	b.CommitUsed(days)
	assert.True(t, b.Pending.IsZero())
	assert.True(t, b.Used.Equal(days))
	assert.True(t, b.Available().Equal(decimal.RequireFromString("7.5")))

	b.RefundUsed(days)
	assert.True(t, b.Used.IsZero())
	assert.True(t, b.Available().Equal(decimal.NewFromInt(10)))

	b.Reserve(days)
	b.ReleasePending(days)
	assert.True(t, b.Pending.IsZero())
}
