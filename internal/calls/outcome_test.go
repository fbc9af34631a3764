package calls

import "testing"

func TestClassifyOutcome(t *testing.T) {
	cases := []struct {
		name       string
		evaluation string
		want       Outcome
	}{
		{"success keyword", "The call was a success", OutcomeInterested},
		{"interested keyword", "Customer sounded interested", OutcomeInterested},
		{"success wins over callback", "success, but needs callback", OutcomeInterested},
		{"callback keyword", "asked for a callback tomorrow", OutcomeCallback},
		{"later keyword", "call me back later", OutcomeCallback},
		{"transfer keyword", "please transfer", OutcomeTransferred},
		{"voicemail keyword", "left a voicemail", OutcomeVoicemail},
		{"negative phrase", "not interested", OutcomeNotInterested},
		{"unmatched text", "the line was noisy", OutcomeNotInterested},
		{"absent evaluation", "", OutcomeError},
		{"mixed case", "SUCCESS - booked a demo", OutcomeInterested},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyOutcome(tc.evaluation); got != tc.want {
				t.Fatalf("ClassifyOutcome(%q) = %s, want %s", tc.evaluation, got, tc.want)
			}
		})
	}
}

func TestClassifyOutcomeOrderSensitive(t *testing.T) {
	// Text containing several keywords must resolve by rule order,
	// not by whichever keyword appears first in the text.
	got := ClassifyOutcome("wants a callback but overall interested")
	if got != OutcomeInterested {
		t.Fatalf("expected INTERESTED, got %s", got)
	}
}
