package analysis

import (
	"encoding/json"
	"strings"
)

// rawPayload is the superset of fields observed across backend
// deployments. Every field is optional; absence is never an error.
//
// Two shapes exist in the wild: the classifier shape
// (classification/confidence/reason, optionally transcript and
// acoustics from the audio deployment) and the legacy score shape
// (risk_score/verdict/alert_required). json.Number tolerates backends
// that quote their numbers.
type rawPayload struct {
	Classification  *string     `json:"classification"`
	Confidence      json.Number `json:"confidence"`
	Reason          *string     `json:"reason"`
	MatchedKeywords []string    `json:"matched_keywords"`
	Transcript      string      `json:"transcript"`
	Acoustics       *struct {
		AvgDB        json.Number `json:"avg_db"`
		SilenceRatio json.Number `json:"silence_ratio"`
	} `json:"acoustics"`

	RiskScore     json.Number `json:"risk_score"`
	Verdict       *string     `json:"verdict"`
	Explanation   *string     `json:"explanation"`
	AlertRequired *bool       `json:"alert_required"`
}

// Normalize maps an arbitrary backend payload into the canonical Result.
// Total over partial input: an empty object yields the safe defaults.
// Malformed JSON also degrades to the safe defaults rather than failing
// the cycle; a 200 response is a successful analysis by contract.
func Normalize(raw []byte, sourceTranscript string) Result {
	var payload rawPayload
	_ = json.Unmarshal(raw, &payload)

	if payload.RiskScore != "" || payload.Verdict != nil || payload.AlertRequired != nil {
		return normalizeLegacy(payload, sourceTranscript)
	}
	return normalizeClassifier(payload, sourceTranscript)
}

// normalizeClassifier handles the classification/confidence shape
// emitted by the shipped text and audio deployments.
func normalizeClassifier(payload rawPayload, sourceTranscript string) Result {
	label := "SAFE"
	if payload.Classification != nil {
		label = strings.ToUpper(strings.TrimSpace(*payload.Classification))
	}
	fraud := isFraudLabel(label)

	result := Result{
		RiskScore:        clampScore(numberOr(payload.Confidence, 0)),
		Verdict:          verdictFor(fraud),
		Explanation:      textOr(payload.Reason, defaultExplanation),
		MatchedKeywords:  keywordsOr(payload.MatchedKeywords),
		AlertRequired:    fraud,
		SourceTranscript: sourceTranscript,
		ServerTranscript: payload.Transcript,
	}

	if payload.Acoustics != nil {
		result.Acoustics = &Acoustics{
			AvgDB:        numberOr(payload.Acoustics.AvgDB, 0),
			SilenceRatio: numberOr(payload.Acoustics.SilenceRatio, 0),
		}
	}
	return result
}

// normalizeLegacy handles the risk_score/verdict shape from the older
// client variant. The verdict phrase is still derived, never passed
// through.
func normalizeLegacy(payload rawPayload, sourceTranscript string) Result {
	fraud := false
	if payload.AlertRequired != nil {
		fraud = *payload.AlertRequired
	} else if payload.Verdict != nil {
		fraud = strings.Contains(strings.ToLower(*payload.Verdict), "fraud")
	}

	explanation := payload.Explanation
	if explanation == nil {
		explanation = payload.Reason
	}

	return Result{
		RiskScore:        clampScore(numberOr(payload.RiskScore, 0)),
		Verdict:          verdictFor(fraud),
		Explanation:      textOr(explanation, defaultExplanation),
		MatchedKeywords:  keywordsOr(payload.MatchedKeywords),
		AlertRequired:    fraud,
		SourceTranscript: sourceTranscript,
		ServerTranscript: payload.Transcript,
	}
}

// isFraudLabel reports whether a backend label indicates fraud. The
// graded deployment labels anything above SAFE as a threat.
func isFraudLabel(label string) bool {
	switch label {
	case "FRAUD", "HIGH", "MEDIUM", "LOW":
		return true
	default:
		return false
	}
}

func verdictFor(fraud bool) string {
	if fraud {
		return VerdictFraud
	}
	return VerdictSafe
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func numberOr(n json.Number, fallback float64) float64 {
	if n == "" {
		return fallback
	}
	value, err := n.Float64()
	if err != nil {
		return fallback
	}
	return value
}

func textOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func keywordsOr(keywords []string) []string {
	if keywords == nil {
		return []string{}
	}
	return keywords
}
