package api

import (
	"context"

	"github.com/PaddyGuard/paddyguard/internal/plan"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	in := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "/auth/login", in, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// NotificationSettings is the per-identity polling configuration.
type NotificationSettings struct {
	Enabled       bool `json:"enabled"`
	IntervalHours int  `json:"interval"`
}

// Settings fetches the persisted notification settings for the current
// identity.
func (c *Client) Settings(ctx context.Context) (NotificationSettings, error) {
	var out NotificationSettings
	err := c.get(ctx, "/settings", &out)
	return out, err
}

// SaveSettings persists new notification settings.
func (c *Client) SaveSettings(ctx context.Context, s NotificationSettings) error {
	in := map[string]any{"notification_settings": s}
	return c.post(ctx, "/settings", in, nil)
}

// AutomatedAnalysis triggers a monitoring analysis for the farmer and
// returns the resulting conversation.
func (c *Client) AutomatedAnalysis(ctx context.Context, farmerID string) (*plan.Notification, error) {
	var out plan.Notification
	in := map[string]string{"farmer_id": farmerID}
	if err := c.post(ctx, "/automated-analysis", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze triggers a manual analysis for the authenticated farmer.
func (c *Client) Analyze(ctx context.Context) (*plan.Notification, error) {
	var out plan.Notification
	if err := c.post(ctx, "/treatment/analyze", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefinePlan sends a plan-editing chat message. The current plan rides
// along so the backend does not have to hold session state.
func (c *Client) RefinePlan(ctx context.Context, id plan.ConversationID, message string, current *plan.Plan) (*plan.Plan, error) {
	var out struct {
		ConversationID plan.ConversationID `json:"conversation_id"`
		Plan           *plan.Plan          `json:"plan"`
	}
	in := map[string]any{
		"conversation_id": id,
		"message":         message,
	}
	if current != nil {
		in["plan"] = current
	}
	if err := c.post(ctx, "/chat", in, &out); err != nil {
		return nil, err
	}
	return out.Plan, nil
}

// Ask sends a free-form question about the farmer's holding.
func (c *Client) Ask(ctx context.Context, farmerID, question string) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	in := map[string]string{"farmer_id": farmerID, "question": question}
	if err := c.post(ctx, "/ask", in, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

// ExecutePlan commits the plan bound to the conversation.
func (c *Client) ExecutePlan(ctx context.Context, id plan.ConversationID) error {
	in := map[string]any{"conversation_id": id}
	return c.post(ctx, "/execute", in, nil)
}

// LatestNotification fetches the newest automated analysis for the
// authenticated farmer. A wrapped ErrNotFound means none exists yet.
func (c *Client) LatestNotification(ctx context.Context) (*plan.Notification, error) {
	var out plan.Notification
	if err := c.get(ctx, "/notifications/latest", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyFarm fetches the authenticated farmer's farm profile.
func (c *Client) MyFarm(ctx context.Context) (*plan.Farm, error) {
	var out plan.Farm
	if err := c.get(ctx, "/my-farm", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IoTData fetches the latest sensor snapshot for the farmer's farm.
func (c *Client) IoTData(ctx context.Context) (*plan.IoTSnapshot, error) {
	var out plan.IoTSnapshot
	if err := c.get(ctx, "/farm/iot-data", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FertilizerPlan generates a staged fertilization schedule for the
// authenticated farmer's crop.
func (c *Client) FertilizerPlan(ctx context.Context) (*plan.FertilizerPlan, error) {
	var out plan.FertilizerPlan
	if err := c.get(ctx, "/farm/fertilizer-plan", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaterPlan generates an irrigation plan from the farm's IoT and
// weather data.
func (c *Client) WaterPlan(ctx context.Context) (*plan.WaterPlan, error) {
	var out plan.WaterPlan
	if err := c.get(ctx, "/farm/water-plan", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists processed analysis sessions for the farmer's farm.
func (c *Client) History(ctx context.Context) ([]plan.HistoryEntry, error) {
	var out []plan.HistoryEntry
	if err := c.get(ctx, "/history", &out); err != nil {
		return nil, err
	}
	return out, nil
}
