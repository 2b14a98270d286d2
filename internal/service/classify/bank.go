package classify

import "math"

// Labels shared by the bank.
const (
	LabelUnknown          = "Unknown"
	LabelPitchUndetected  = "Could not detect pitch"
	LabelTranscriptNeeded = "Transcript required"
)

// Unbounded is the upper bound of every final band.
var Unbounded = math.Inf(1)

// Pace classifies words per minute.
var Pace = MustNew("pace", LabelUnknown,
	Band{110, "Slow"},
	Band{150, "Normal"},
	Band{180, "Fast"},
	Band{Unbounded, "Very Fast"},
)

// Tone classifies the pitch coefficient of variation.
var Tone = MustNew("tone", LabelPitchUndetected,
	Band{10, "Very Monotone"},
	Band{20, "Somewhat Monotone"},
	Band{30, "Normal Variation"},
	Band{Unbounded, "Very Dynamic"},
)

// Volume classifies the energy coefficient of variation.
var Volume = MustNew("volume", LabelUnknown,
	Band{15, "Flat"},
	Band{30, "Moderate"},
	Band{Unbounded, "Very Expressive"},
)

// Hesitation classifies pauses per minute.
var Hesitation = MustNew("hesitation", LabelUnknown,
	Band{5, "Low (Fluent)"},
	Band{15, "Moderate"},
	Band{Unbounded, "High (Hesitant)"},
)

// Filler classifies the filler word rate in percent.
var Filler = MustNew("filler", LabelUnknown,
	Band{2, "Low"},
	Band{5, "Moderate"},
	Band{Unbounded, "High"},
)
