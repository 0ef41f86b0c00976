// Package homeassistant reads the art car's live GPS position from a
// Home Assistant device_tracker entity over the REST API.
package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brcarts/playatracker/internal/core/ports"
	"github.com/brcarts/playatracker/internal/pkg/metrics"
)

// Client implements ports.DeviceTracker against the Home Assistant
// states API. Every failure mode collapses into ErrTrackerUnavailable:
// the resolver only needs to know "advance to the next source".
type Client struct {
	baseURL string
	token   string
	entity  string
	http    *http.Client
}

// New creates a tracker client with a bounded request timeout. A
// single timeout triggers immediate fallback, never a retry loop.
func New(baseURL, token, entity string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		entity:  entity,
		http:    &http.Client{Timeout: timeout},
	}
}

type stateResponse struct {
	State      string `json:"state"`
	Attributes struct {
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
		GPSAccuracy  *float64 `json:"gps_accuracy"`
		BatteryLevel *float64 `json:"battery_level"`
	} `json:"attributes"`
	LastUpdated time.Time `json:"last_updated"`
}

// unavailable records the failure and collapses it into the sentinel.
func unavailable(format string, args ...any) error {
	metrics.TrackerFailures.Inc()
	return fmt.Errorf("%w: %s", ports.ErrTrackerUnavailable, fmt.Sprintf(format, args...))
}

// CurrentPosition fetches the device tracker entity state.
func (c *Client) CurrentPosition(ctx context.Context) (*ports.TrackerState, error) {
	url := fmt.Sprintf("%s/api/states/%s", c.baseURL, c.entity)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, unavailable("%v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("device tracker request failed", "entity", c.entity, "error", err)
		return nil, unavailable("%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("device tracker returned non-200", "entity", c.entity, "status", resp.StatusCode)
		return nil, unavailable("status %d", resp.StatusCode)
	}

	var st stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, unavailable("decode: %v", err)
	}

	if st.Attributes.Latitude == nil || st.Attributes.Longitude == nil {
		return nil, unavailable("entity %s has no GPS attributes", c.entity)
	}

	return &ports.TrackerState{
		Lat:         *st.Attributes.Latitude,
		Lng:         *st.Attributes.Longitude,
		Accuracy:    st.Attributes.GPSAccuracy,
		Battery:     st.Attributes.BatteryLevel,
		LastUpdated: st.LastUpdated,
	}, nil
}
