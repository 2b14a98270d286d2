package confidence

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ai-speech-delivery-service/internal/models"
)

func f(v float64) *float64 { return &v }

func TestFuse(t *testing.T) {
	tests := []struct {
		name       string
		ev         Evidence
		score      int
		mood       string
		indicators []models.Indicator
	}{
		{
			name:       "confident speaker",
			ev:         Evidence{PitchCV: f(25), VolumeCV: f(30), WPM: f(140), HesitationIndex: f(3)},
			score:      7,
			mood:       "Confident & Expressive",
			indicators: []models.Indicator{IndicatorDynamicPitch, IndicatorExpressive},
		},
		{
			name:       "nervous speaker",
			ev:         Evidence{PitchCV: f(5), VolumeCV: f(10), WPM: f(90), HesitationIndex: f(20)},
			score:      -5,
			mood:       "Nervous/Hesitant",
			indicators: []models.Indicator{IndicatorMonotone, IndicatorHesitant, IndicatorNervous},
		},
		{
			name:       "rushed adds no score",
			ev:         Evidence{PitchCV: f(15), VolumeCV: f(20), WPM: f(190), HesitationIndex: f(10)},
			score:      0,
			mood:       "Neutral",
			indicators: []models.Indicator{IndicatorRushed},
		},
		{
			name:       "pace bounds are inclusive",
			ev:         Evidence{WPM: f(160)},
			score:      1,
			mood:       "Moderately Confident",
			indicators: []models.Indicator{},
		},
		{
			name:       "everything undetermined",
			ev:         Evidence{},
			score:      0,
			mood:       "Neutral",
			indicators: []models.Indicator{},
		},
		{
			name:       "score of minus one is neutral",
			ev:         Evidence{PitchCV: f(5)},
			score:      -1,
			mood:       "Neutral",
			indicators: []models.Indicator{IndicatorMonotone},
		},
		{
			name:       "score of minus two is nervous",
			ev:         Evidence{HesitationIndex: f(16)},
			score:      -2,
			mood:       "Nervous/Hesitant",
			indicators: []models.Indicator{IndicatorNervous},
		},
		{
			name:       "score of four is confident",
			ev:         Evidence{PitchCV: f(21), HesitationIndex: f(1)},
			score:      4,
			mood:       "Confident & Expressive",
			indicators: []models.Indicator{IndicatorDynamicPitch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fuse(tt.ev)
			if got.Score != tt.score {
				t.Errorf("expected score %d, got %d", tt.score, got.Score)
			}
			if got.Mood != tt.mood {
				t.Errorf("expected mood %q, got %q", tt.mood, got.Mood)
			}
			if diff := cmp.Diff(tt.indicators, got.Indicators); diff != "" {
				t.Errorf("indicators mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFuse_Deterministic(t *testing.T) {
	ev := Evidence{PitchCV: f(12), VolumeCV: f(27), WPM: f(101), HesitationIndex: f(7)}
	first := Fuse(ev)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Fuse(ev)); diff != "" {
			t.Fatalf("fuse not deterministic (-first +got):\n%s", diff)
		}
	}
}
