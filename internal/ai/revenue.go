package ai

import (
	"regexp"
	"strconv"
	"strings"
)

// Each pattern runs over the whole lower-cased text on its own, so one
// amount may be found by several of them.
var revenuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),                  // $1,000 or $1,000.00
	regexp.MustCompile(`[\d,]+(?:\.\d{2})?\s*(?:dollars?|usd)`), // 1000 dollars
	regexp.MustCompile(`[\d,]+(?:\.\d{2})?\s*k`),                // 50k
	regexp.MustCompile(`[\d,]+(?:\.\d{2})?\s*(?:million|m\b)`),  // 2 million, 1m
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// ExtractRevenue returns the largest monetary amount mentioned in text, or
// 0 when there is none.
func ExtractRevenue(text string) float64 {
	text = strings.ToLower(text)
	var best float64

	for _, p := range revenuePatterns {
		for _, match := range p.FindAllString(text, -1) {
			clean := nonNumeric.ReplaceAllString(match, "")
			if clean == "" {
				continue
			}
			value, err := strconv.ParseFloat(clean, 64)
			if err != nil {
				continue
			}
			switch {
			case strings.Contains(match, "k"):
				value *= 1_000
			case strings.Contains(match, "m"):
				value *= 1_000_000
			}
			best = max(best, value)
		}
	}

	return best
}
