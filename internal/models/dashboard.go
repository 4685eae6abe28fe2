package models

// DashboardStats is a loose map because every role receives a different set of counters.
type DashboardStats map[string]any

// Int reads a counter, tolerating JSON numbers decoded as float64.
func (s DashboardStats) Int(key string) int {
	switch v := s[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

type Activity struct {
	ID          any    `json:"id,omitempty"`
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	User        string `json:"user,omitempty"`
}

// DashboardEnvelope wraps every /dashboard/* response.
type DashboardEnvelope[T any] struct {
	Success   bool     `json:"success"`
	Data      T        `json:"data"`
	Role      UserRole `json:"role,omitempty"`
	Count     int      `json:"count,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

type DashboardSummary struct {
	Stats      DashboardStats `json:"stats"`
	Activities []Activity     `json:"activities"`
	User       *User          `json:"user,omitempty"`
}
