package services

import (
	"fmt"
	"strings"

	"nofap-ai/models"
)

// Conversation modes the coach answers in. Classification is a fixed ordered
// keyword table, not a model call.
const (
	ModeEncourage = "encourage"
	ModeAnalyze   = "analyze"
	ModeAction    = "action"
)

// personaBlocks: the three fixed system-prompt openings, keyed by the stored
// preference.
var personaBlocks = map[string]string{
	models.PersonaMentor: "You are a calm, experienced mentor guiding someone through recovery " +
		"from compulsive habits. Speak with quiet authority, never judge, and " +
		"anchor advice in long-term identity change.",
	models.PersonaFriend: "You are a close friend who has been through the same struggle. Speak " +
		"casually and warmly, use \"we\" language, and keep things light without " +
		"dismissing what the user feels.",
	models.PersonaDrill: "You are a no-excuses drill instructor. Be blunt, direct and demanding. " +
		"Push the user to act immediately. Never be cruel about slips, but never " +
		"accept excuses either.",
}

// modeRules: first matching category wins; default is encourage. Substring
// match against the lowercased latest user message.
var modeRules = []struct {
	Mode     string
	Keywords []string
}{
	{ModeAction, []string{"what should i", "what do i do", "right now", "urge", "help me", "plan"}},
	{ModeAnalyze, []string{"why", "pattern", "trigger", "keep failing", "relapse", "analyz"}},
}

// ClassifyMode buckets the user's latest message into a conversation mode.
func ClassifyMode(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range modeRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Mode
			}
		}
	}
	return ModeEncourage
}

// moteFlavor appends tier-dependent color so the coach's tone tracks where
// the user actually is.
func moteFlavor(moteLevel int) string {
	switch {
	case moteLevel >= 60:
		return "The user is in excellent shape. Celebrate their momentum and raise the bar."
	case moteLevel >= 20:
		return "The user is building real momentum. Reinforce what is working."
	case moteLevel >= -20:
		return "The user is finding their footing. Keep advice small and concrete."
	default:
		return "The user is struggling right now. Lead with compassion before any advice."
	}
}

// CoachState is the user snapshot folded into the system prompt.
type CoachState struct {
	Name        string
	StreakDays  int
	Level       int
	Tier        string
	MoteLevel   int
	FailedToday bool
}

// BuildSystemPrompt assembles persona block + tier flavor + state summary +
// the response-mode instruction for the latest message.
func BuildSystemPrompt(persona string, state CoachState, latestMessage string) string {
	block, ok := personaBlocks[persona]
	if !ok {
		block = personaBlocks[models.PersonaMentor]
	}

	var b strings.Builder
	b.WriteString(block)
	b.WriteString("\n\n")
	b.WriteString(moteFlavor(state.MoteLevel))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "User: %s. Current streak: %d days. Level %d, tier %q.",
		state.Name, state.StreakDays, state.Level, state.Tier)
	if state.FailedToday {
		b.WriteString(" They logged a failure today.")
	}
	b.WriteString("\n\n")

	switch ClassifyMode(latestMessage) {
	case ModeAction:
		b.WriteString("Respond with immediate, concrete actions the user can take in the next ten minutes.")
	case ModeAnalyze:
		b.WriteString("Respond by helping the user understand the pattern behind what they describe.")
	default:
		b.WriteString("Respond with encouragement grounded in the user's actual progress.")
	}
	return b.String()
}
