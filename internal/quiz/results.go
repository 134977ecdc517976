package quiz

import "math"

// Performance is the rating band shown on the results screen.
type Performance struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Emoji   string `json:"emoji"`
}

// Summary is the final outcome of a game.
type Summary struct {
	Stats       Stats       `json:"stats"`
	Percentage  int         `json:"percentage"`
	Performance Performance `json:"performance"`
	Tips        []string    `json:"tips,omitempty"`
}

var improvementTips = []string{
	"Always check the sender's email address carefully",
	"Hover over links to see the actual URL before clicking",
	"Be suspicious of urgent or threatening language",
	`Look for generic greetings like "Dear Customer"`,
	"Never share sensitive information via email",
}

// Percentage returns correct/total as a whole percentage, rounding halves up.
// A game with no answers scores 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(correct)/float64(total)*100 + 0.5))
}

// Rate maps a percentage to its performance band.
func Rate(percentage int) Performance {
	switch {
	case percentage == 100:
		return Performance{Title: "Perfect Score!", Message: "You're a phishing detection expert!", Emoji: "🏆"}
	case percentage >= 80:
		return Performance{Title: "Excellent Work!", Message: "You have great cybersecurity awareness!", Emoji: "🌟"}
	case percentage >= 60:
		return Performance{Title: "Good Job!", Message: "You're getting better at spotting phishing!", Emoji: "👍"}
	case percentage >= 40:
		return Performance{Title: "Keep Practicing!", Message: "You're learning the basics!", Emoji: "📚"}
	default:
		return Performance{Title: "Try Again!", Message: "Practice makes perfect!", Emoji: "💪"}
	}
}

// Tips returns improvement tips for anything short of a perfect score.
func Tips(percentage int) []string {
	if percentage >= 100 {
		return nil
	}
	return append([]string(nil), improvementTips...)
}

// Summarize rates a finished game.
func Summarize(stats Stats) Summary {
	pct := Percentage(stats.Correct, stats.TotalAnswered)
	return Summary{
		Stats:       stats,
		Percentage:  pct,
		Performance: Rate(pct),
		Tips:        Tips(pct),
	}
}

// FeedbackTip is the learning tip shown after a wrong answer. Marking a
// phishing email safe and flagging a legitimate one get different advice.
func FeedbackTip(choice Choice) string {
	if choice == ChoiceSafe {
		return "Always verify sender addresses and hover over links before clicking."
	}
	return "Legitimate companies rarely use urgent language or ask for sensitive information via email."
}
