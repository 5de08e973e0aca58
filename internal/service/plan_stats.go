package service

import (
	"github.com/shopspring/decimal"

	"tms/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ComputePlanStats aggregates per-result item counts. Progress is the share of items that
// are no longer NOT_RUN, as a percentage rounded half up; it is 0 for an empty plan.
func ComputePlanStats(counts map[model.Result]int) model.PlanStats {
	stats := model.PlanStats{
		Pass:   counts[model.ResultPass],
		Fail:   counts[model.ResultFail],
		Block:  counts[model.ResultBlock],
		NotRun: counts[model.ResultNotRun],
	}
	for _, n := range counts {
		stats.Total += n
	}
	stats.Progress = progress(stats.Total, stats.NotRun)
	return stats
}

func progress(total, notRun int) int {
	if total <= 0 {
		return 0
	}
	run := decimal.NewFromInt(int64(total - notRun))
	pct := run.Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(0)
	return int(pct.IntPart())
}

// countResults counts items per result.
func countResults(items []model.PlanItem) map[model.Result]int {
	counts := make(map[model.Result]int)
	for _, item := range items {
		counts[item.Result]++
	}
	return counts
}
