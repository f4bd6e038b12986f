package schema

// Formulation defaults.
const (
	DefaultTargetMass  = 20.0    // kg of ration per day
	DefaultEpsilon     = 0.001   // quantities at or below this are solver noise
	DefaultProfileName = "dairy" // built-in requirement profile
	DisplayPrecision   = 2       // decimal places for quantities and costs
)

// DairyIngredients returns the built-in feed table for a lactating dairy cow.
// Prices are R$/kg and nutrient content is a fraction of ingredient mass.
func DairyIngredients() []Ingredient {
	return []Ingredient{
		{Name: "Silagem de Milho", UnitPrice: 0.80, Content: map[Nutrient]float64{
			DryMatter: 0.35, CrudeProtein: 0.075, TDN: 0.65, Calcium: 0.003, Phosphorus: 0.0022,
		}},
		{Name: "Feno de Tifton", UnitPrice: 1.20, Content: map[Nutrient]float64{
			DryMatter: 0.85, CrudeProtein: 0.12, TDN: 0.55, Calcium: 0.0045, Phosphorus: 0.002,
		}},
		{Name: "Farelo de Soja", UnitPrice: 3.50, Content: map[Nutrient]float64{
			DryMatter: 0.88, CrudeProtein: 0.45, TDN: 0.80, Calcium: 0.003, Phosphorus: 0.0065,
		}},
		{Name: "Milho Moído", UnitPrice: 2.00, Content: map[Nutrient]float64{
			DryMatter: 0.88, CrudeProtein: 0.09, TDN: 0.85, Calcium: 0.0003, Phosphorus: 0.0025,
		}},
		{Name: "Caroço de Algodão", UnitPrice: 2.50, Content: map[Nutrient]float64{
			DryMatter: 0.90, CrudeProtein: 0.23, TDN: 0.80, Calcium: 0.002, Phosphorus: 0.006,
		}},
		{Name: "Minerais", UnitPrice: 4.00, Content: map[Nutrient]float64{
			DryMatter: 0.98, CrudeProtein: 0, TDN: 0, Calcium: 0.16, Phosphorus: 0.08,
		}},
	}
}

// DairyRequirements returns the daily minimums for a 600 kg cow producing 25 L of milk.
func DairyRequirements() Requirements {
	return Requirements{
		{Nutrient: DryMatter, MinimumFraction: 0.40},
		{Nutrient: CrudeProtein, MinimumFraction: 0.16},
		{Nutrient: TDN, MinimumFraction: 0.68},
		{Nutrient: Calcium, MinimumFraction: 0.006},
		{Nutrient: Phosphorus, MinimumFraction: 0.004},
	}
}

// DefaultProfiles returns the built-in named requirement profiles.
func DefaultProfiles() map[string]Requirements {
	return map[string]Requirements{
		DefaultProfileName: DairyRequirements(),
	}
}
