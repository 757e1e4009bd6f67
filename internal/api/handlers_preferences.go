package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/innerweather/internal/services"
)

type preferencesRequest struct {
	CycleTrackingEnabled *bool           `json:"cycleTrackingEnabled"`
	HealthDataEnabled    *bool           `json:"healthDataEnabled"`
	LastPeriodStart      json.RawMessage `json:"lastPeriodStart"`
	CycleLength          *int            `json:"cycleLength"`
}

func (handler *Handler) GetPreferences(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	prefs, err := handler.preferencesService.Load(c.UserContext(), userID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(prefs)
}

func (handler *Handler) UpdatePreferences(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	update, ok := parsePreferencesRequest(c.Body())
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	prefs, err := handler.preferencesService.Save(c.UserContext(), userID, update)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(prefs)
}

// parsePreferencesRequest keeps "absent" and "null" apart for
// lastPeriodStart: null clears the stored date, absent leaves it alone.
func parsePreferencesRequest(body []byte) (services.PreferencesUpdate, bool) {
	request := preferencesRequest{}
	if err := json.Unmarshal(body, &request); err != nil {
		return services.PreferencesUpdate{}, false
	}

	update := services.PreferencesUpdate{
		CycleTrackingEnabled: request.CycleTrackingEnabled,
		HealthDataEnabled:    request.HealthDataEnabled,
		CycleLength:          request.CycleLength,
	}
	if len(request.LastPeriodStart) > 0 {
		start := ""
		if string(request.LastPeriodStart) != "null" {
			if err := json.Unmarshal(request.LastPeriodStart, &start); err != nil {
				return services.PreferencesUpdate{}, false
			}
		}
		update.LastPeriodStart = &start
	}
	return update, true
}
