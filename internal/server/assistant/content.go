package assistant

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

// MinMoodEntries is the number of check-ins needed before insights are computed.
const MinMoodEntries = 3

const (
	NotEnoughMoodData = "Keep tracking your mood for a few more days to get personalized insights! 📈"

	chatFallback = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment. " +
		"In the meantime, remember that you're not alone, and it's okay to reach out for support. 💙"

	reflectionFallback = "Thank you for sharing your thoughts with me. Journaling is such a powerful tool for " +
		"self-reflection and emotional processing. Keep writing and being honest with yourself - you're doing " +
		"great work in understanding your inner world. 💙"

	tipsFallback = `Here are some essential mental wellness tips:

1. **Practice Mindful Breathing** - Take 5 deep breaths when feeling overwhelmed
2. **Stay Connected** - Reach out to a friend or family member regularly
3. **Move Your Body** - Even a 10-minute walk can improve your mood
4. **Limit Social Media** - Set boundaries on screen time for better mental health
5. **Practice Gratitude** - Write down 3 things you're grateful for each day
6. **Prioritize Sleep** - Aim for 7-9 hours of quality sleep nightly
7. **Be Kind to Yourself** - Treat yourself with the same compassion you'd show a good friend`
)

var affirmations = []string{
	"You are stronger than you think and more resilient than you know. 🌟",
	"Every small step forward is progress worth celebrating. 🎉",
	"Your feelings are valid, and it's okay to take things one day at a time. 🌅",
	"You have survived 100% of your difficult days so far - that's an amazing track record. 💪",
	"Self-compassion is not selfish; it's necessary for your well-being. 💙",
	"You are worthy of love, kindness, and all good things in life. ✨",
	"It's okay to not be okay sometimes. Healing isn't linear. 🌱",
	"You are making a difference simply by being here and trying. 🌈",
	"Your mental health matters, and taking care of it is a sign of strength. 🧠💚",
	"Tomorrow is a new day with new possibilities and fresh hope. 🌄",
}

// BreathingExercise is a short guided exercise.
type BreathingExercise struct {
	Name        string   `json:"name"`
	Steps       []string `json:"steps"`
	Description string   `json:"description"`
}

var breathingExercises = []BreathingExercise{
	{
		Name: "4-7-8 Breathing Exercise",
		Steps: []string{
			"Exhale completely through your mouth",
			"Inhale through your nose for 4 counts",
			"Hold your breath for 7 counts",
			"Exhale through your mouth for 8 counts",
			"Repeat 3-4 times",
		},
		Description: "This helps activate your body's relaxation response. 🌸",
	},
	{
		Name: "Box Breathing",
		Steps: []string{
			"Inhale for 4 counts",
			"Hold for 4 counts",
			"Exhale for 4 counts",
			"Hold empty for 4 counts",
			"Repeat 5-10 times",
		},
		Description: "Great for reducing anxiety and improving focus. 📦✨",
	},
	{
		Name: "5-5 Calming Breath",
		Steps: []string{
			"Breathe in slowly for 5 counts",
			"Breathe out slowly for 5 counts",
			"Focus on making your exhale slightly longer",
			"Continue for 2-3 minutes",
		},
		Description: "Perfect for moments when you need quick centering. 🧘",
	},
}

// Affirmations returns a copy of the built-in affirmations.
func Affirmations() []string {
	return append([]string(nil), affirmations...)
}

// BreathingExercises returns a copy of the built-in exercises.
func BreathingExercises() []BreathingExercise {
	return append([]BreathingExercise(nil), breathingExercises...)
}

// FallbackInsights is the rule-based summary used when the remote call fails.
func FallbackInsights(s models.MoodSummary) string {
	var insights []string

	switch {
	case s.MoodScale >= 7:
		insights = append(insights, "Your mood levels look positive overall - keep up whatever you're doing! 🌟")
	case s.MoodScale >= 5:
		insights = append(insights, "Your mood is in a balanced range. Consider small daily practices to boost it further.")
	default:
		insights = append(insights, "I notice your mood has been lower lately. Remember, it's okay to have difficult periods.")
	}

	if s.SleepQuality < 5 {
		insights = append(insights, "Your sleep quality could use some attention - good sleep is crucial for mental wellness.")
	}
	if s.AnxietyLevel > 7 {
		insights = append(insights, "Your anxiety levels seem elevated. Consider practicing relaxation techniques daily.")
	}

	return strings.Join(insights, " ") +
		"\n\nRemember, you're doing great by tracking and being aware of your patterns. 💙"
}

// Format renders an exercise as numbered steps.
func (b BreathingExercise) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", b.Name)
	for i, step := range b.Steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	sb.WriteString("\n")
	sb.WriteString(b.Description)
	return sb.String()
}
