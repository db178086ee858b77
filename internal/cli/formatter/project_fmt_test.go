package formatter

import (
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/viewmodel"
	"github.com/stretchr/testify/assert"
)

func sampleViews() []viewmodel.ProjectView {
	end, _ := domain.ParseDate("2030-12-31")
	return []viewmodel.ProjectView{
		{
			ID:         "12345678-aaaa-bbbb-cccc-1234567890ab",
			Name:       "Résidence Les Pins",
			Status:     domain.StatusInProgress,
			Priority:   domain.PriorityHigh,
			Progress:   60,
			Budget:     15000000.5,
			BudgetUsed: 3000000,
			EndDate:    end,
			Worksites: []viewmodel.WorksiteView{
				{ID: "1", Name: "Bâtiment A", Status: domain.StatusCompleted, Progress: 80},
				{ID: "2", Name: "Bâtiment B", Status: domain.StatusInProgress, Progress: 40},
			},
		},
		{ID: "9", Name: "Pont Neuf", Status: domain.StatusPlanned, Priority: domain.PriorityLow, Budget: 10, BudgetUsed: 20},
	}
}

func TestFormatProjectList(t *testing.T) {
	out := FormatProjectList(sampleViews())

	assert.Contains(t, out, "PROJECTS")
	assert.Contains(t, out, "Résidence Les Pins")
	assert.Contains(t, out, "12345678")
	assert.NotContains(t, out, "12345678-aaaa", "ids are truncated")
	assert.Contains(t, out, " 60%")
	assert.Contains(t, out, "15,000,000.50")
	assert.Contains(t, out, "2030-12-31")
	assert.Contains(t, out, "Planned")
}

func TestFormatProjectList_Empty(t *testing.T) {
	assert.Contains(t, FormatProjectList(nil), "No projects yet")
}

func TestFormatProjectDetail(t *testing.T) {
	out := FormatProjectDetail(sampleViews()[0])
	assert.Contains(t, out, "WORKSITES")
	assert.Contains(t, out, "Bâtiment A")
	assert.Contains(t, out, "[ 80% ]")
	assert.Contains(t, out, "[ 40% ]")
	assert.Contains(t, out, "High")
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(viewmodel.Summary(sampleViews()))
	assert.Contains(t, out, "2 projects")
	assert.Contains(t, out, "2 worksites")
	assert.Contains(t, out, "1 over budget")
}

func TestRenderTree(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "Gros oeuvre", Level: 1, Status: domain.StatusCompleted, Detail: "100%"},
		{Title: "Charpente", Level: 1, IsLast: true, Status: domain.StatusInProgress},
	})
	assert.Contains(t, out, "├─ ✔ Gros oeuvre")
	assert.Contains(t, out, "└─ ▶ Charpente")
	assert.Contains(t, out, "[ 100% ]")
}
