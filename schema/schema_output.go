package schema

// Nutrient status labels.
const (
	ShortLabel   = "Short"
	BindingLabel = "Binding"
	SurplusLabel = "Surplus"
)

// bindingTolerance is the fraction gap below which a requirement counts as binding.
const bindingTolerance = 1e-6

// EnrichedBlendLine adds presentation data to a BlendLine.
type EnrichedBlendLine struct {
	Position int     `json:"position"`
	Share    float64 `json:"share"` // percent of target mass
	BlendLine
}

// EnrichedNutrientLevel adds a status label to a NutrientLevel.
type EnrichedNutrientLevel struct {
	Label string `json:"label"`
	NutrientLevel
}

// GetNutrientLabel returns whether a requirement is short, exactly met (binding) or exceeded.
func GetNutrientLabel(level NutrientLevel) string {
	switch surplus := level.Surplus(); {
	case surplus < -bindingTolerance:
		return ShortLabel
	case surplus <= bindingTolerance:
		return BindingLabel
	default:
		return SurplusLabel
	}
}

// EnrichLines adds position and mass share to the lines of a blend.
func EnrichLines(result BlendResult) []EnrichedBlendLine {
	output := make([]EnrichedBlendLine, len(result.Lines))
	for i, l := range result.Lines {
		share := 0.0
		if result.TargetMass > 0 {
			share = l.Quantity / result.TargetMass * 100
		}
		output[i] = EnrichedBlendLine{
			Position:  i + 1,
			Share:     share,
			BlendLine: l,
		}
	}
	return output
}

// EnrichNutrients adds status labels to nutrient levels.
func EnrichNutrients(levels []NutrientLevel) []EnrichedNutrientLevel {
	output := make([]EnrichedNutrientLevel, len(levels))
	for i, l := range levels {
		output[i] = EnrichedNutrientLevel{
			Label:         GetNutrientLabel(l),
			NutrientLevel: l,
		}
	}
	return output
}
