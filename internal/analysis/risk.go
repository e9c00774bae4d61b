package analysis

// Band is the discrete severity derived from a risk score. Bands order
// Low < Medium < High and drive presentation severity only; alerting is
// driven by Result.AlertRequired alone.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// Banding thresholds. Boundary scores belong to the lower band.
const (
	lowUpperBound    = 0.30
	mediumUpperBound = 0.70
)

func (b Band) String() string {
	switch b {
	case BandLow:
		return "LOW"
	case BandMedium:
		return "MEDIUM"
	case BandHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// Classify maps a risk score onto its band. Pure and total: scores
// outside [0,1] still band (negatives are Low, >1 is High).
func Classify(score float64) Band {
	switch {
	case score <= lowUpperBound:
		return BandLow
	case score <= mediumUpperBound:
		return BandMedium
	default:
		return BandHigh
	}
}
