// Package plan defines the advisory plan artifact produced by the backend
// for one conversation, wire-faithful to the backend JSON.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FallbackMainMessage is shown when a plan arrives without a treatment
// plan main message.
const FallbackMainMessage = "Đây là kết quả phân tích tự động."

// ConversationID is the backend-assigned identifier binding a plan to its
// chat history. The backend stores session ids as integers but the client
// treats them as opaque, so both JSON numbers and strings are accepted.
type ConversationID string

// UnmarshalJSON accepts a JSON string or number.
func (c *ConversationID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ConversationID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("conversation id: %w", err)
	}
	*c = ConversationID(n.String())
	return nil
}

// MarshalJSON emits the id as a number when it is numeric, otherwise as a
// string, so requests round-trip the backend's own representation.
func (c ConversationID) MarshalJSON() ([]byte, error) {
	s := string(c)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func (c ConversationID) String() string { return string(c) }

// Analysis is the risk/weather assessment section of a plan.
type Analysis struct {
	RiskAssessment string `json:"risk_assessment,omitempty"`
	WeatherSummary string `json:"weather_summary,omitempty"`
	FarmerID       string `json:"farmer_id,omitempty"`
}

// OptimalSprayDay names the recommended spraying window.
type OptimalSprayDay struct {
	Date    string `json:"date,omitempty"`
	Session string `json:"session,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// DrugInfo describes the recommended product. The backend emits
// Vietnamese JSON keys; they are preserved on the wire.
type DrugInfo struct {
	Product          string `json:"sản_phẩm_tham_khảo,omitempty"`
	ActiveIngredient string `json:"hoạt_chất,omitempty"`
	Dosage           string `json:"liều_lượng,omitempty"`
	Usage            string `json:"cách_dùng,omitempty"`
}

// TreatmentPlan is the actionable core of an advisory plan.
type TreatmentPlan struct {
	IsActionable      bool             `json:"is_actionable"`
	MainMessage       string           `json:"main_message,omitempty"`
	OptimalSprayDay   *OptimalSprayDay `json:"optimal_spray_day,omitempty"`
	DrugInfo          *DrugInfo        `json:"drug_info,omitempty"`
	AdditionalActions []string         `json:"additional_actions,omitempty"`
}

// FertilizerAdvice is the optional fertilizer section.
type FertilizerAdvice struct {
	Recommendation string `json:"recommendation,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// ActionDetails carries the machine-readable execution payload the
// backend needs when a plan is committed.
type ActionDetails struct {
	FarmerID string    `json:"farmer_id,omitempty"`
	DrugInfo *DrugInfo `json:"drug_info,omitempty"`
}

// Plan is the structured advisory artifact for one conversation. Every
// sub-section is optional; presence determines what is rendered.
type Plan struct {
	Analysis         *Analysis         `json:"analysis,omitempty"`
	TreatmentPlan    *TreatmentPlan    `json:"treatment_plan,omitempty"`
	FertilizerAdvice *FertilizerAdvice `json:"fertilizer_advice,omitempty"`
	Prognosis        string            `json:"prognosis,omitempty"`
	ActionDetails    *ActionDetails    `json:"action_details_for_system,omitempty"`
}

// Actionable reports whether the backend marked this plan as having a
// concrete executable action. A nil plan or absent treatment plan is
// never actionable.
func (p *Plan) Actionable() bool {
	return p != nil && p.TreatmentPlan != nil && p.TreatmentPlan.IsActionable
}

// MainMessage returns the treatment plan's main message, falling back to
// a fixed phrase when the section is absent or empty.
func (p *Plan) MainMessage() string {
	if p != nil && p.TreatmentPlan != nil {
		if msg := strings.TrimSpace(p.TreatmentPlan.MainMessage); msg != "" {
			return msg
		}
	}
	return FallbackMainMessage
}

// FarmerID returns the farmer identifier embedded in the plan, if any.
func (p *Plan) FarmerID() string {
	if p == nil {
		return ""
	}
	if p.Analysis != nil && p.Analysis.FarmerID != "" {
		return p.Analysis.FarmerID
	}
	if p.ActionDetails != nil {
		return p.ActionDetails.FarmerID
	}
	return ""
}

// Notification is the (conversation id, plan) pair delivered by the
// automated analysis and latest-notification endpoints.
type Notification struct {
	ConversationID ConversationID `json:"conversation_id"`
	Plan           *Plan          `json:"plan"`
}
