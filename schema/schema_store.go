package schema

import "time"

// FormulationRunRecord represents a row from the ration_formulation_runs table.
type FormulationRunRecord struct {
	RunID           int64
	RunUUID         string
	ProfileName     string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TargetMass      float64
	Status          string
	TotalCost       *float64
	ObjectiveValue  *float64
	IngredientCount int32
	ConfigParams    *string
	ErrorMessage    *string
}

// BlendLineRecord represents a row from the ration_blend_lines table.
type BlendLineRecord struct {
	RunID          int64
	IngredientName string
	Position       int32
	Quantity       float64
	Cost           float64
}

// RunOutcome is the completion data written when a formulation run ends.
type RunOutcome struct {
	EndTime         time.Time
	Status          RunStatus
	TotalCost       float64
	ObjectiveValue  float64
	IngredientCount int
	ErrorMessage    string
}
