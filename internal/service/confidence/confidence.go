// Package confidence fuses delivery metrics into a single confidence verdict.
package confidence

import (
	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/service/classify"
)

// Indicators emitted by the fuser.
const (
	IndicatorDynamicPitch models.Indicator = "dynamic_pitch"
	IndicatorMonotone     models.Indicator = "monotone"
	IndicatorExpressive   models.Indicator = "expressive"
	IndicatorRushed       models.Indicator = "rushed"
	IndicatorHesitant     models.Indicator = "hesitant"
	IndicatorNervous      models.Indicator = "nervous"
)

// Mood bands over the cumulative score.
var Mood = classify.MustNew("mood", "Neutral",
	classify.Band{Below: -1, Label: "Nervous/Hesitant"},
	classify.Band{Below: 1, Label: "Neutral"},
	classify.Band{Below: 4, Label: "Moderately Confident"},
	classify.Band{Below: classify.Unbounded, Label: "Confident & Expressive"},
)

// Evidence holds the four inputs of the fuser. A nil field is undetermined
// and contributes neither score nor indicator.
type Evidence struct {
	PitchCV         *float64
	VolumeCV        *float64
	WPM             *float64
	HesitationIndex *float64
}

// Fuse scores the evidence in fixed order: pitch, volume, pace, hesitation.
func Fuse(ev Evidence) models.ConfidenceVerdict {
	score := 0
	indicators := []models.Indicator{}

	if cv := ev.PitchCV; cv != nil {
		switch {
		case *cv > 20:
			score += 2
			indicators = append(indicators, IndicatorDynamicPitch)
		case *cv < 10:
			score--
			indicators = append(indicators, IndicatorMonotone)
		}
	}

	if cv := ev.VolumeCV; cv != nil {
		switch {
		case *cv > 25:
			score += 2
			indicators = append(indicators, IndicatorExpressive)
		case *cv < 15:
			score--
		}
	}

	if wpm := ev.WPM; wpm != nil {
		switch {
		case *wpm >= 120 && *wpm <= 160:
			score++
		case *wpm > 180:
			indicators = append(indicators, IndicatorRushed)
		case *wpm < 100:
			score--
			indicators = append(indicators, IndicatorHesitant)
		}
	}

	if h := ev.HesitationIndex; h != nil {
		switch {
		case *h < 5:
			score += 2
		case *h > 15:
			score -= 2
			indicators = append(indicators, IndicatorNervous)
		}
	}

	return models.ConfidenceVerdict{
		Score:      score,
		Mood:       Mood.Classify(float64(score)),
		Indicators: indicators,
	}
}
