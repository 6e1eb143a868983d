package ai

import (
	"fmt"
	"strings"
	"time"

	"sales-tracker-backend/internal/tasks"
)

type keywordWeight struct {
	keyword string
	weight  int
}

// Keywords are matched as plain substrings, so "meeting" also hits
// "meetings" and "follow up" is only found as that exact phrase.
var priorityKeywords = []keywordWeight{
	{"urgent", 10},
	{"asap", 9},
	{"critical", 8},
	{"important", 7},
	{"follow up", 6},
	{"meeting", 5},
	{"proposal", 4},
	{"quote", 3},
}

const (
	revenueScoreCap = 50

	overdueScore  = 30
	dueSoonScore  = 25
	dueWeekScore  = 15
	dueSoonDays   = 3
	dueWeekDays   = 7
	openTaskScore = 20

	highValueRevenue   = 10000
	mediumValueRevenue = 5000
	highPriorityScore  = 50
)

type Analysis struct {
	AIPriorityScore float64  `json:"ai_priority_score"`
	KeywordScore    int      `json:"keyword_score"`
	RevenueScore    float64  `json:"revenue_score"`
	TimeScore       int      `json:"time_score"`
	StatusScore     int      `json:"status_score"`
	Insights        []string `json:"insights"`
}

// Analyzer computes the heuristic priority of a task. The zero value is not
// usable; use NewAnalyzer.
type Analyzer struct {
	now func() time.Time
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

func (a *Analyzer) Analyze(t tasks.Task) Analysis {
	keyword := KeywordScore(t.Title + " " + t.Description)
	revenue := min(t.RevenuePotential/1000, revenueScoreCap)
	timeScore := a.timeScore(t)
	status := statusScore(t.Status)

	total := float64(keyword) + revenue + float64(timeScore) + float64(status)
	return Analysis{
		AIPriorityScore: total,
		KeywordScore:    keyword,
		RevenueScore:    revenue,
		TimeScore:       timeScore,
		StatusScore:     status,
		Insights:        a.Insights(t, total),
	}
}

// KeywordScore sums the weight of every priority keyword found in text.
// A keyword counts once however often it appears.
func KeywordScore(text string) int {
	text = strings.ToLower(text)
	score := 0
	for _, kw := range priorityKeywords {
		if strings.Contains(text, kw.keyword) {
			score += kw.weight
		}
	}
	return score
}

func (a *Analyzer) timeScore(t tasks.Task) int {
	days, ok := t.DaysUntilDue(a.now())
	if !ok {
		return 0
	}
	switch {
	case days < 0:
		return overdueScore
	case days <= dueSoonDays:
		return dueSoonScore
	case days <= dueWeekDays:
		return dueWeekScore
	default:
		return 0
	}
}

func statusScore(s tasks.Status) int {
	switch s {
	case tasks.StatusOpen:
		return openTaskScore
	case tasks.StatusInProgress, tasks.StatusClosed:
		return 0
	}
	return 0
}

// Insights lists human readable remarks about t in a fixed order: value,
// deadline, priority, account.
func (a *Analyzer) Insights(t tasks.Task, priorityScore float64) []string {
	insights := []string{}

	switch {
	case t.RevenuePotential > highValueRevenue:
		insights = append(insights, "High-value opportunity - prioritize accordingly")
	case t.RevenuePotential > mediumValueRevenue:
		insights = append(insights, "Medium-value deal - good ROI potential")
	}

	if days, ok := t.DaysUntilDue(a.now()); ok {
		switch {
		case days < 0:
			insights = append(insights, "⚠️ Task is overdue - immediate attention needed")
		case days <= dueSoonDays:
			insights = append(insights, "🚨 Due soon - consider escalating")
		}
	}

	if t.Status == tasks.StatusOpen && priorityScore > highPriorityScore {
		insights = append(insights, "High-priority open task - consider starting soon")
	}

	if t.Account != "" {
		insights = append(insights, fmt.Sprintf("Account: %s - review account history", t.Account))
	}

	return insights
}

// SuggestNextActions returns the playbook for the task's status; closed
// tasks need nothing.
func SuggestNextActions(t tasks.Task) []string {
	switch t.Status {
	case tasks.StatusOpen:
		return []string{
			"Schedule initial contact",
			"Prepare proposal/quote",
			"Research account information",
		}
	case tasks.StatusInProgress:
		return []string{
			"Follow up on previous communication",
			"Schedule next meeting",
			"Prepare next steps",
		}
	case tasks.StatusClosed:
		return []string{}
	}
	return []string{}
}
