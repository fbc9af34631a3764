package calls

import "strings"

// outcomeRule maps a predicate over the lowered evaluation text to an outcome.
// Rules are evaluated top to bottom and the first match wins, so order matters:
// evaluation text often contains several keywords at once.
type outcomeRule struct {
	match   func(string) bool
	outcome Outcome
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var outcomeRules = []outcomeRule{
	// "not interested" must not trip the positive rule even though it
	// contains the keyword.
	{func(s string) bool {
		if strings.Contains(s, "success") {
			return true
		}
		return strings.Contains(s, "interested") && !strings.Contains(s, "not interested")
	}, OutcomeInterested},
	{func(s string) bool { return containsAny(s, "callback", "later") }, OutcomeCallback},
	{func(s string) bool { return containsAny(s, "transfer") }, OutcomeTransferred},
	{func(s string) bool { return containsAny(s, "voicemail") }, OutcomeVoicemail},
}

// ClassifyOutcome maps the provider's free-text success evaluation to a
// closed outcome. An absent evaluation is an ERROR; unmatched text degrades
// to NOT_INTERESTED, never to a classification failure.
func ClassifyOutcome(evaluation string) Outcome {
	if evaluation == "" {
		return OutcomeError
	}
	lower := strings.ToLower(evaluation)
	for _, rule := range outcomeRules {
		if rule.match(lower) {
			return rule.outcome
		}
	}
	return OutcomeNotInterested
}
