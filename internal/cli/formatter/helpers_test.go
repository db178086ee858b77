package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, StatusPill(domain.StatusPlanned), "Planned")
	assert.Contains(t, StatusPill("en_cours"), "In progress")
	assert.Contains(t, StatusPill("garbage"), "In progress")
	assert.Contains(t, StatusPill(domain.StatusCompleted), "Completed")
}

func TestPriorityBadge(t *testing.T) {
	assert.Contains(t, PriorityBadge("haute"), "High")
	assert.Contains(t, PriorityBadge(""), "Medium")
}

func TestFormatMoney(t *testing.T) {
	assert.Contains(t, FormatMoney(15000000.5, "EUR"), "15,000,000.50")
	assert.Contains(t, FormatMoney(15000000.5, "EUR"), "EUR")
	assert.Equal(t, "0.00", FormatMoney(0, ""))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "60%", FormatPercent(60))
	assert.Equal(t, "100%", FormatPercent(140))
}

func TestDateCells(t *testing.T) {
	assert.Contains(t, DateCell(domain.Date{}), "--")
	d, _ := domain.ParseDate("2024-05-10")
	assert.Equal(t, "2024-05-10", DateCell(d))
	assert.Contains(t, DueCell(d, domain.StatusCompleted), "2024-05-10")
	assert.Contains(t, DueCell(d, domain.StatusInProgress), "ago")
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
}

func TestRenderTable_RightAligned(t *testing.T) {
	out := RenderTable([]string{"NAME", "AMOUNT"}, [][]string{{"a", "1.00"}, {"b", "100.00"}}, 1)
	assert.Contains(t, out, "a       1.00")
	assert.Contains(t, out, "b     100.00")
}
