package analytics

import (
	"sort"

	"sales-tracker-backend/internal/ai"
	"sales-tracker-backend/internal/tasks"
)

// Priority tier helper (simple deterministic bucket over the AI score)
func TierFromScore(score float64) string {
	switch {
	case score >= 75:
		return "P1"
	case score >= 50:
		return "P2"
	default:
		return "P3"
	}
}

type StatusSummary struct {
	Count            int     `json:"count"`
	RevenuePotential float64 `json:"revenue_potential"`
}

type AccountSummary struct {
	Account  string      `json:"account"`
	Tasks    int         `json:"tasks"`
	Forecast ai.Forecast `json:"forecast"`
}

type Pipeline struct {
	ByStatus  map[tasks.Status]StatusSummary `json:"by_status"`
	ByAccount []AccountSummary               `json:"by_account"`
	// Tiers counts the tasks that are not closed per AI priority tier.
	Tiers    map[string]int `json:"tiers"`
	Forecast ai.Forecast    `json:"forecast"`
}

// Summarize aggregates ts. Accounts are ordered by weighted forecast,
// largest first; tasks without an account are left out of ByAccount.
func Summarize(ts []tasks.Task, analyzer *ai.Analyzer, predictor *ai.Predictor) Pipeline {
	p := Pipeline{
		ByStatus: map[tasks.Status]StatusSummary{
			tasks.StatusOpen:       {},
			tasks.StatusInProgress: {},
			tasks.StatusClosed:     {},
		},
		ByAccount: []AccountSummary{},
		Tiers:     map[string]int{"P1": 0, "P2": 0, "P3": 0},
		Forecast:  predictor.Forecast(ts),
	}

	byAccount := map[string][]tasks.Task{}
	for _, t := range ts {
		s := p.ByStatus[t.Status]
		s.Count++
		s.RevenuePotential += t.RevenuePotential
		p.ByStatus[t.Status] = s

		if t.Status != tasks.StatusClosed {
			p.Tiers[TierFromScore(analyzer.Analyze(t).AIPriorityScore)]++
		}
		if t.Account != "" {
			byAccount[t.Account] = append(byAccount[t.Account], t)
		}
	}

	for account, group := range byAccount {
		p.ByAccount = append(p.ByAccount, AccountSummary{
			Account:  account,
			Tasks:    len(group),
			Forecast: predictor.Forecast(group),
		})
	}
	sort.Slice(p.ByAccount, func(i, j int) bool {
		a, b := p.ByAccount[i], p.ByAccount[j]
		if a.Forecast.WeightedForecast != b.Forecast.WeightedForecast {
			return a.Forecast.WeightedForecast > b.Forecast.WeightedForecast
		}
		return a.Account < b.Account
	})

	return p
}
