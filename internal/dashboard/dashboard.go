// Package dashboard derives summary metrics from the deal and activity
// caches. Pure read side: no mutation, no error states of its own.
package dashboard

import (
	"math"
	"sort"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

type Metrics struct {
	TotalDeals    int                 `json:"totalDeals"`
	PipelineValue float64             `json:"pipelineValue"`
	WonDeals      int                 `json:"wonDeals"`
	ActivityCount int                 `json:"activityCount"`
	ByStage       map[stage.Stage]int `json:"byStage"`
}

func Compute(deals []model.Deal, activities []model.Activity) Metrics {
	m := Metrics{
		TotalDeals:    len(deals),
		ActivityCount: len(activities),
		ByStage:       map[stage.Stage]int{},
	}
	for _, d := range deals {
		if !math.IsNaN(d.Value) {
			m.PipelineValue += d.Value
		}
		if d.Stage == stage.Won {
			m.WonDeals++
		}
		m.ByStage[d.Stage]++
	}
	return m
}

// RecentActivities returns up to n activities sorted by date, newest first.
func RecentActivities(activities []model.Activity, n int) []model.Activity {
	out := make([]model.Activity, len(activities))
	copy(out, activities)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
