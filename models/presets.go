package models

// Static preset tables for the client-side timer tools. Served read-only;
// the server never tracks timer state.

// BreathingPreset: phase durations in seconds.
type BreathingPreset struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Inhale  int    `json:"inhale"`
	Hold    int    `json:"hold"`
	Exhale  int    `json:"exhale"`
	HoldOut int    `json:"hold_out"`
	Rounds  int    `json:"rounds"`
}

// WorkoutPreset: A simple circuit description.
type WorkoutPreset struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
	WorkSec   int      `json:"work_sec"`
	RestSec   int      `json:"rest_sec"`
	Rounds    int      `json:"rounds"`
}

var BreathingPresets = []BreathingPreset{
	{Code: "BOX", Name: "Box Breathing", Inhale: 4, Hold: 4, Exhale: 4, HoldOut: 4, Rounds: 10},
	{Code: "478", Name: "4-7-8 Relax", Inhale: 4, Hold: 7, Exhale: 8, HoldOut: 0, Rounds: 6},
	{Code: "COHERENT", Name: "Coherent Breathing", Inhale: 5, Hold: 0, Exhale: 5, HoldOut: 0, Rounds: 20},
}

var WorkoutPresets = []WorkoutPreset{
	{
		Code:      "QUICK_BURN",
		Name:      "Quick Burn",
		Exercises: []string{"push-ups", "squats", "plank"},
		WorkSec:   40, RestSec: 20, Rounds: 3,
	},
	{
		Code:      "FULL_BODY",
		Name:      "Full Body Circuit",
		Exercises: []string{"burpees", "lunges", "mountain climbers", "sit-ups"},
		WorkSec:   45, RestSec: 15, Rounds: 4,
	},
	{
		Code:      "MORNING_WAKE",
		Name:      "Morning Wake-Up",
		Exercises: []string{"jumping jacks", "high knees", "arm circles"},
		WorkSec:   30, RestSec: 30, Rounds: 2,
	},
}

// MeditationDurations: selectable session lengths, minutes.
var MeditationDurations = []int{5, 10, 15, 20, 30}
