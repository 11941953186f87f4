package services

import (
	"fmt"
	"log"
	"math"
)

// Gamification math. Everything here is pure arithmetic over plain ints so the
// services that persist results can run it inside a transaction without side
// effects.

// BaseXPPerLevel scales the level curve: level n -> n+1 costs floor(100 * n^1.5).
const BaseXPPerLevel = 100

// SecondsPerDay is the streak day unit: whole 24h periods, not calendar days.
const SecondsPerDay = 86400

// ResetDecayFactor is applied to every attribute on a logged failure. A slip
// keeps 70% of each attribute rather than zeroing it out.
const ResetDecayFactor = 0.7

// LevelInfo is the derived view of a raw XP total.
type LevelInfo struct {
	Level           int   `json:"level"`
	XPIntoLevel     int64 `json:"xp_into_level"`
	XPForNextLevel  int64 `json:"xp_for_next_level"`
	ProgressPercent int   `json:"progress_percent"`
}

// xpForNextLevel returns XP required to go from currentLevel to currentLevel+1.
func xpForNextLevel(currentLevel int) int64 {
	if currentLevel < 1 {
		currentLevel = 1
	}
	return int64(math.Floor(BaseXPPerLevel * math.Pow(float64(currentLevel), 1.5)))
}

// CalculateLevel walks the XP curve: subtract each level's cost while the
// remainder covers it. Monotonic in xp, level >= 1 always, O(level) steps.
func CalculateLevel(totalXP int64) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	remaining := totalXP
	need := xpForNextLevel(level)
	for remaining >= need {
		remaining -= need
		level++
		need = xpForNextLevel(level)
	}
	return LevelInfo{
		Level:           level,
		XPIntoLevel:     remaining,
		XPForNextLevel:  need,
		ProgressPercent: int(remaining * 100 / need),
	}
}

// CalculateMoteLevel is the rounded mean of the four attributes, clamped.
func CalculateMoteLevel(confidence, vitality, calmness, cleanliness int) int {
	mean := float64(confidence+vitality+calmness+cleanliness) / 4.0
	return clamp(int(math.Round(mean)), -100, 100)
}

// ScoreFromMoteLevel maps the -100..100 mote level onto the public 0..100 score.
func ScoreFromMoteLevel(moteLevel int) int {
	return clamp((moteLevel+100)/2, 0, 100)
}

// tierThresholds: ordered high-to-low; first entry whose Min the score reaches
// wins. Ten tiers, "restart" at the bottom, "immaculate" at the top.
var tierThresholds = []struct {
	Min  int
	Name string
}{
	{90, "immaculate"},
	{80, "luminous"},
	{70, "radiant"},
	{60, "bright"},
	{50, "clear"},
	{40, "grounded"},
	{30, "steady"},
	{20, "ember"},
	{10, "flicker"},
	{0, "restart"},
}

// TierForScore picks the display tier for a 0..100 score.
func TierForScore(score int) string {
	for _, t := range tierThresholds {
		if score >= t.Min {
			return t.Name
		}
	}
	return "restart"
}

// CalculateConfidence is the streak-days -> confidence curve. Piecewise linear:
// fast early gains, tapering later. Breakpoints are load-bearing — stored data
// from older versions assumes f(5)=10, f(20)=40, f(60)=80.
func CalculateConfidence(days int) int {
	if days < 0 {
		days = 0
	}
	var v float64
	switch {
	case days <= 5:
		v = float64(2 * days)
	case days <= 20:
		v = float64(10 + (days-5)*2)
	case days <= 60:
		v = float64(40 + (days - 20))
	default:
		v = math.Min(80+float64(days-60)*0.5, 100)
	}
	return clamp(int(math.Floor(v)), -100, 100)
}

// CalculateResetAttributes decays each attribute by ResetDecayFactor, floored,
// never below -100. Shrinks toward zero for positive values; negative values
// sink (floor goes down), bounded by the clamp.
func CalculateResetAttributes(attrs [4]int) [4]int {
	var out [4]int
	for i, a := range attrs {
		out[i] = clampLow(int(math.Floor(float64(a)*ResetDecayFactor)), -100)
	}
	return out
}

// CalculateStreakDays converts elapsed seconds since the streak start into
// whole days. A negative elapsed means the stored start is in the future —
// invalid data, logged and treated as day zero rather than crashing.
func CalculateStreakDays(elapsedSeconds int64) int {
	if elapsedSeconds < 0 {
		log.Printf("⚠️ streak start is in the future (elapsed=%ds), treating as day 0", elapsedSeconds)
		return 0
	}
	return int(elapsedSeconds / SecondsPerDay)
}

// checkFinite fails fast when float math produced garbage, so nothing partial
// gets persisted downstream.
func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("gamification: derived value %s is not finite", name)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampLow(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
