package web

import (
	"fmt"
	"html/template"
	"slices"
	"strconv"
	"strings"
	"time"

	"accommodation_portal/internal/models"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Funcs is the helper set available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"fieldError":  fieldError,
		"date":        formatDate,
		"dateTime":    formatDateTime,
		"timeAgo":     timeAgo,
		"roleLabel":   func(r models.UserRole) string { return r.Label() },
		"initials":    initials,
		"humanize":    humanize,
		"statusClass": statusClass,
		"percent":     func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"add":         func(a, b int) int { return a + b },
		"naira":       naira,
		"contains":    func(list []string, v string) bool { return slices.Contains(list, v) },
		"lower":       strings.ToLower,
		"upper":       strings.ToUpper,
		"join":        strings.Join,
		"default":     func(fallback, v string) string {
			if strings.TrimSpace(v) == "" {
				return fallback
			}
			return v
		},
	}
}

func fieldError(errs map[string]string, field string) string {
	if errs == nil {
		return ""
	}
	return errs[field]
}

func parseTime(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders backend timestamps as "Jan 2, 2006"; unparseable input is shown as is.
func formatDate(raw string) string {
	if raw == "" {
		return "N/A"
	}
	t, ok := parseTime(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006")
}

func formatDateTime(raw string) string {
	if raw == "" {
		return "N/A"
	}
	t, ok := parseTime(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006 15:04")
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("Jan 2, 2006")
}

func initials(u *models.User) string {
	if u == nil {
		return "?"
	}
	var out []rune
	for _, part := range strings.Fields(u.DisplayName()) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// humanize turns "total_rooms" into "Total rooms".
func humanize(key string) string {
	s := strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func statusClass(status string) string {
	switch strings.ToLower(status) {
	case "approved", "active", "completed", "success", "available":
		return "badge-success"
	case "pending", "processing", "medium":
		return "badge-warning"
	case "rejected", "failed", "inactive", "high", "error":
		return "badge-danger"
	}
	return "badge-muted"
}

// naira renders an amount as "₦12,500".
func naira(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "₦" + b.String()
}
