package dashboard

import (
	"testing"
	"time"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	deals := []model.Deal{
		{ID: 1, Value: 1000, Stage: stage.LeadIn},
		{ID: 2, Value: 2500, Stage: stage.LeadIn},
		{ID: 3, Value: 8000, Stage: stage.Won},
		{ID: 4, Value: 500, Stage: stage.Lost},
	}
	activities := []model.Activity{
		{ID: 10, Type: model.ActivityCall},
		{ID: 11, Type: model.ActivityEmail},
	}

	m := Compute(deals, activities)

	assert.Equal(t, 4, m.TotalDeals)
	assert.Equal(t, 12000.0, m.PipelineValue)
	assert.Equal(t, 1, m.WonDeals)
	assert.Equal(t, 2, m.ActivityCount)
	assert.Equal(t, map[stage.Stage]int{
		stage.LeadIn: 2,
		stage.Won:    1,
		stage.Lost:   1,
	}, m.ByStage)
}

func TestComputeEmptyCaches(t *testing.T) {
	m := Compute(nil, nil)
	assert.Zero(t, m.TotalDeals)
	assert.Zero(t, m.PipelineValue)
	assert.Empty(t, m.ByStage)
}

func TestRecentActivitiesSortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	activities := []model.Activity{
		{ID: 1, Date: base.Add(-48 * time.Hour)},
		{ID: 2, Date: base},
		{ID: 3, Date: base.Add(-24 * time.Hour)},
	}

	recent := RecentActivities(activities, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].ID)
	assert.Equal(t, 3, recent[1].ID)

	// Input order untouched.
	assert.Equal(t, 1, activities[0].ID)
}
