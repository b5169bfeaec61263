// Package riskscore оценивает риск по матрице вероятность × влияние (5×5).
package riskscore

import (
	"fmt"
	"strings"
)

type Level string

const (
	Low      Level = "low"
	Medium   Level = "medium"
	High     Level = "high"
	Critical Level = "critical"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ConditionOptions = []string{"excellent", "good", "fair", "poor", "broken"}

type Assessment struct {
	Likelihood int   `json:"likelihood"`
	Impact     int   `json:"impact"`
	Score      int   `json:"score"`
	Level      Level `json:"level"`
}

func Score(likelihood, impact int) (int, error) {
	if likelihood < MinRating || likelihood > MaxRating {
		return 0, fmt.Errorf("вероятность %d вне диапазона %d..%d", likelihood, MinRating, MaxRating)
	}
	if impact < MinRating || impact > MaxRating {
		return 0, fmt.Errorf("влияние %d вне диапазона %d..%d", impact, MinRating, MaxRating)
	}
	return likelihood * impact, nil
}

func LevelOf(score int) Level {
	switch {
	case score >= 17:
		return Critical
	case score >= 10:
		return High
	case score >= 5:
		return Medium
	default:
		return Low
	}
}

// AssetRisk: вероятность отказа растёт с возрастом (доля выработанного срока
// службы) и ухудшением состояния, влияние задаётся критичностью актива.
func AssetRisk(ageRatio float64, condition string, criticality int) Assessment {
	likelihood := MinRating
	switch {
	case ageRatio >= 1:
		likelihood = 4
	case ageRatio >= 0.75:
		likelihood = 3
	case ageRatio >= 0.5:
		likelihood = 2
	}

	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "broken":
		likelihood = MaxRating
	case "poor":
		likelihood += 2
	case "fair":
		likelihood++
	}
	likelihood = clamp(likelihood)
	impact := clamp(criticality)

	score := likelihood * impact
	return Assessment{Likelihood: likelihood, Impact: impact, Score: score, Level: LevelOf(score)}
}

func clamp(v int) int {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}
