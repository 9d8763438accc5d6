package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/oksasatya/recipes-auth/pkg/mailer/templates"
)

// LocalizeTimesIfPossible resolves the requester's IP and rewrites the human readable
// times in data to their timezone. It also fills Location when it is empty.
func LocalizeTimesIfPossible(ctx context.Context, resolver mailtpl.LocationResolver, data map[string]any) {
	if resolver == nil {
		return
	}
	ipVal, ok := data["IP"]
	if !ok || fmt.Sprintf("%v", ipVal) == "" {
		return
	}
	ip := fmt.Sprintf("%v", ipVal)
	g, err := resolver.Lookup(ctx, ip)
	if err != nil {
		return
	}
	if loc, ok := data["Location"]; !ok || fmt.Sprintf("%v", loc) == "" {
		if place := mailtpl.FormatPlace(g); place != "" {
			data["Location"] = place
		}
	}
	if strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	// ExpiresAt
	if v, ok := data["ExpiresAt"]; ok {
		if t, ok2 := parseTimeAny(v); ok2 {
			data["ExpiresAtText"] = t.In(loc).Format("02 January 2006, 15:04 MST")
		}
	}
	// TimeAt -> Time
	if v, ok := data["TimeAt"]; ok {
		if t, ok2 := parseTimeAny(v); ok2 {
			data["Time"] = t.In(loc).Format("02 January 2006, 15:04 MST")
		}
	}
}

func parseTimeAny(v any) (time.Time, bool) {
	s := fmt.Sprintf("%v", v)
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			if t.IsZero() {
				return time.Time{}, false
			}
			return t, true
		}
	}
	return time.Time{}, false
}
