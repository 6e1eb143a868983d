package ai

import (
	"time"

	"sales-tracker-backend/internal/tasks"
)

const (
	baseProbability    = 0.5
	farFutureDays      = 30
	nearTermDays       = 7
	forecastLowFactor  = 0.8
	forecastHighFactor = 1.2
)

type Forecast struct {
	TotalPotential     float64    `json:"total_potential"`
	WeightedForecast   float64    `json:"weighted_forecast"`
	ConfidenceInterval [2]float64 `json:"confidence_interval"`
}

// Predictor estimates how likely deals are to close.
type Predictor struct {
	now func() time.Time
}

func NewPredictor() *Predictor {
	return &Predictor{now: time.Now}
}

// ClosureProbability returns a heuristic estimate in [0, 1]. Closed tasks
// are always 1.
func (p *Predictor) ClosureProbability(t tasks.Task) float64 {
	prob := baseProbability

	switch {
	case t.RevenuePotential > highValueRevenue:
		prob += 0.2
	case t.RevenuePotential > mediumValueRevenue:
		prob += 0.1
	}

	if days, ok := t.DaysUntilDue(p.now()); ok {
		switch {
		case days > farFutureDays:
			prob -= 0.1
		case days <= nearTermDays:
			prob += 0.1
		}
	}

	switch t.Status {
	case tasks.StatusInProgress:
		prob += 0.2
	case tasks.StatusClosed:
		prob = 1.0
	case tasks.StatusOpen:
	}

	return min(max(prob, 0.0), 1.0)
}

// Forecast sums revenue potential over ts, plain and weighted by closure
// probability. An empty slice yields a zero Forecast.
func (p *Predictor) Forecast(ts []tasks.Task) Forecast {
	var total, weighted float64
	for _, t := range ts {
		total += t.RevenuePotential
		weighted += t.RevenuePotential * p.ClosureProbability(t)
	}
	return Forecast{
		TotalPotential:     total,
		WeightedForecast:   weighted,
		ConfidenceInterval: [2]float64{weighted * forecastLowFactor, weighted * forecastHighFactor},
	}
}
