package services_test

import (
	"testing"

	"nofap-ai/services"
)

func TestCalculateLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		xp        int64
		wantLevel int
		wantNeed  int64
	}{
		{name: "Zero XP starts at level 1", xp: 0, wantLevel: 1, wantNeed: 100},
		{name: "Just below first threshold", xp: 99, wantLevel: 1, wantNeed: 100},
		{name: "Exactly first threshold", xp: 100, wantLevel: 2, wantNeed: 282},
		{name: "Mid level 2", xp: 300, wantLevel: 2, wantNeed: 282},
		{name: "Level 3 boundary", xp: 382, wantLevel: 3, wantNeed: 519},
		{name: "Negative XP coerced to zero", xp: -50, wantLevel: 1, wantNeed: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := services.CalculateLevel(tt.xp)
			if got.Level != tt.wantLevel {
				t.Errorf("CalculateLevel(%d).Level = %d, want %d", tt.xp, got.Level, tt.wantLevel)
			}
			if got.XPForNextLevel != tt.wantNeed {
				t.Errorf("CalculateLevel(%d).XPForNextLevel = %d, want %d", tt.xp, got.XPForNextLevel, tt.wantNeed)
			}
			if got.ProgressPercent < 0 || got.ProgressPercent > 100 {
				t.Errorf("CalculateLevel(%d).ProgressPercent = %d, out of range", tt.xp, got.ProgressPercent)
			}
		})
	}
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	t.Parallel()

	prev := 0
	for xp := int64(0); xp <= 50000; xp += 137 {
		info := services.CalculateLevel(xp)
		if info.Level < 1 {
			t.Fatalf("level %d < 1 at xp=%d", info.Level, xp)
		}
		if info.Level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, info.Level, xp)
		}
		prev = info.Level
	}
}

func TestCalculateMoteLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		c, v, ca, cl int
		want         int
	}{
		{name: "All zero", c: 0, v: 0, ca: 0, cl: 0, want: 0},
		{name: "Rounded mean", c: 1, v: 2, ca: 2, cl: 2, want: 2},
		{name: "Rounds half up", c: 1, v: 0, ca: 0, cl: 1, want: 1},
		{name: "All max", c: 100, v: 100, ca: 100, cl: 100, want: 100},
		{name: "All min", c: -100, v: -100, ca: -100, cl: -100, want: -100},
		{name: "Mixed", c: 50, v: -50, ca: 30, cl: -30, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := services.CalculateMoteLevel(tt.c, tt.v, tt.ca, tt.cl)
			if got != tt.want {
				t.Errorf("CalculateMoteLevel(%d,%d,%d,%d) = %d, want %d", tt.c, tt.v, tt.ca, tt.cl, got, tt.want)
			}
			if got < -100 || got > 100 {
				t.Errorf("mote level %d out of [-100,100]", got)
			}
		})
	}
}

func TestScoreAndTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mote      int
		wantScore int
		wantTier  string
	}{
		{mote: -100, wantScore: 0, wantTier: "restart"},
		{mote: 0, wantScore: 50, wantTier: "clear"},
		{mote: 60, wantScore: 80, wantTier: "luminous"},
		{mote: 100, wantScore: 100, wantTier: "immaculate"},
	}

	for _, tt := range tests {
		tt := tt
		score := services.ScoreFromMoteLevel(tt.mote)
		if score != tt.wantScore {
			t.Errorf("ScoreFromMoteLevel(%d) = %d, want %d", tt.mote, score, tt.wantScore)
		}
		if tier := services.TierForScore(score); tier != tt.wantTier {
			t.Errorf("TierForScore(%d) = %q, want %q", score, tier, tt.wantTier)
		}
	}
}

func TestCalculateConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days int
		want int
	}{
		{days: 0, want: 0},
		{days: 1, want: 2},
		{days: 5, want: 10},
		{days: 6, want: 12},
		{days: 20, want: 40},
		{days: 21, want: 41},
		{days: 60, want: 80},
		{days: 62, want: 81},
		{days: 100, want: 100},
		{days: 500, want: 100},
		{days: -3, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		if got := services.CalculateConfidence(tt.days); got != tt.want {
			t.Errorf("CalculateConfidence(%d) = %d, want %d", tt.days, got, tt.want)
		}
	}
}

func TestCalculateResetAttributes(t *testing.T) {
	t.Parallel()

	in := [4]int{100, 50, 0, -100}
	got := services.CalculateResetAttributes(in)
	want := [4]int{70, 35, 0, -70}
	if got != want {
		t.Errorf("CalculateResetAttributes(%v) = %v, want %v", in, got, want)
	}

	// Positive attributes always shrink toward zero, nothing falls below -100.
	for _, a := range []int{1, 7, 42, 99, 100} {
		out := services.CalculateResetAttributes([4]int{a, a, a, a})
		for _, o := range out {
			if o > a || o < 0 {
				t.Errorf("decay of %d produced %d, expected value in [0,%d]", a, o, a)
			}
		}
	}
	out := services.CalculateResetAttributes([4]int{-100, -100, -100, -100})
	for _, o := range out {
		if o < -100 {
			t.Errorf("decay produced %d, below -100", o)
		}
	}
}

func TestCalculateStreakDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		elapsed int64
		want    int
	}{
		{elapsed: 0, want: 0},
		{elapsed: 86399, want: 0},
		{elapsed: 86400, want: 1},
		{elapsed: 86401, want: 1},
		{elapsed: 7 * 86400, want: 7},
		{elapsed: -60, want: 0}, // future start timestamp: invalid data, not a crash
	}

	for _, tt := range tests {
		tt := tt
		if got := services.CalculateStreakDays(tt.elapsed); got != tt.want {
			t.Errorf("CalculateStreakDays(%d) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}
