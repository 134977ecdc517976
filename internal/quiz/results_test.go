package quiz

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		correct, total int
		want           int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{5, 10, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{3, 8, 38},
	}
	for _, tt := range tests {
		if got := Percentage(tt.correct, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestRateBoundaries(t *testing.T) {
	tests := []struct {
		pct   int
		title string
	}{
		{100, "Perfect Score!"},
		{99, "Excellent Work!"},
		{80, "Excellent Work!"},
		{79, "Good Job!"},
		{60, "Good Job!"},
		{59, "Keep Practicing!"},
		{50, "Keep Practicing!"},
		{40, "Keep Practicing!"},
		{39, "Try Again!"},
		{0, "Try Again!"},
	}
	for _, tt := range tests {
		if got := Rate(tt.pct).Title; got != tt.title {
			t.Errorf("Rate(%d) = %q, want %q", tt.pct, got, tt.title)
		}
	}
}

func TestTips(t *testing.T) {
	if tips := Tips(100); len(tips) != 0 {
		t.Errorf("perfect score should have no tips, got %v", tips)
	}
	if tips := Tips(99); len(tips) != 5 {
		t.Errorf("expected 5 tips, got %d", len(tips))
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(Stats{Score: 35, Correct: 4, Incorrect: 1, TotalAnswered: 5})
	if s.Percentage != 80 {
		t.Errorf("Percentage = %d, want 80", s.Percentage)
	}
	if s.Performance.Emoji != "🌟" {
		t.Errorf("Emoji = %q", s.Performance.Emoji)
	}
	if len(s.Tips) == 0 {
		t.Error("expected tips below 100")
	}
}

func TestFeedbackTip(t *testing.T) {
	if FeedbackTip(ChoiceSafe) == FeedbackTip(ChoicePhishing) {
		t.Error("tips for the two wrong-answer kinds should differ")
	}
}
