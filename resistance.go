package zoom

const (
	// RubberBandFactor is the share of a drag past the bound that still moves
	// the image.
	RubberBandFactor = 0.38
	// DecayRubberBandFactor is the boundary elasticity of a fling.
	DecayRubberBandFactor = 0.55

	// MinScaleResistance applies to pinching below 1x, MaxScaleResistance past
	// the maximum scale. Zooming out is meant to feel looser.
	MinScaleResistance = 0.4
	MaxScaleResistance = 0.28

	MinScale = 1.0
)

// RubberBand is v inside [lo, hi]. Outside, only RubberBandFactor of the
// excess past the nearest boundary is kept.
func RubberBand(v, lo, hi float64) float64 {
	if v >= lo && v <= hi {
		return v
	}
	if v < lo {
		return lo + (v-lo)*RubberBandFactor
	}
	return hi + (v-hi)*RubberBandFactor
}

// RubberBandScale resists a raw pinch scale outside [1, maxScale].
func RubberBandScale(raw, maxScale float64) float64 {
	switch {
	case raw < MinScale:
		return MinScale + (raw-MinScale)*MinScaleResistance
	case raw > maxScale:
		return maxScale + (raw-maxScale)*MaxScaleResistance
	}
	return raw
}
