package plan

// Farm is the farm profile returned by GET /my-farm.
type Farm struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	FarmerName   string  `json:"farmer_name"`
	Province     string  `json:"province"`
	AreaHa       float64 `json:"area_ha"`
	PlantingDate string  `json:"planting_date,omitempty"`
}

// IoTSnapshot is the latest sensor reading set for a farm.
type IoTSnapshot struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soil_moisture"`
	SoilPH       float64 `json:"soil_ph"`
	WaterLevel   float64 `json:"water_level"`
}

// FertilizerApplication is one product within a fertilization stage.
type FertilizerApplication struct {
	Type         string  `json:"type"`
	QuantityKg   float64 `json:"quantity_kg"`
	Instructions string  `json:"instructions,omitempty"`
}

// FertilizationStage is one growth-stage entry of a fertilizer plan.
type FertilizationStage struct {
	StageName   string                  `json:"stage_name"`
	Timing      string                  `json:"timing,omitempty"`
	Fertilizers []FertilizerApplication `json:"fertilizers,omitempty"`
}

// FertilizerPlan is the staged fertilization schedule returned by
// GET /farm/fertilizer-plan.
type FertilizerPlan struct {
	MainSummary         string               `json:"main_summary,omitempty"`
	FertilizationStages []FertilizationStage `json:"fertilization_stages,omitempty"`
	AdditionalAdvice    string               `json:"additional_advice,omitempty"`
}

// ThreeDayPlan is the per-day irrigation guidance window.
type ThreeDayPlan struct {
	Today            string `json:"today,omitempty"`
	Tomorrow         string `json:"tomorrow,omitempty"`
	DayAfterTomorrow string `json:"day_after_tomorrow,omitempty"`
}

// WaterPlan is the irrigation recommendation returned by
// GET /farm/water-plan, built from IoT and weather data.
type WaterPlan struct {
	MainRecommendation string       `json:"main_recommendation"`
	Reason             string       `json:"reason,omitempty"`
	ThreeDayPlan       ThreeDayPlan `json:"three_day_plan"`
	CurrentAssessment  string       `json:"current_assessment,omitempty"`
}

// HistoryEntry is one processed analysis session from GET /history.
type HistoryEntry struct {
	ID      ConversationID `json:"id"`
	Date    string         `json:"date"`
	Disease string         `json:"disease"`
	Risk    string         `json:"risk"`
	Status  string         `json:"status"`
}
