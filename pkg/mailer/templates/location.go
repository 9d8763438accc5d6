package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Place is a coarse location resolved from a client IP.
type Place struct {
	City     string
	Region   string // state/province
	Country  string
	Timezone string
}

type LocationResolver interface {
	Lookup(ctx context.Context, ip string) (Place, error)
}

func FormatPlace(g Place) string {
	var parts []string
	if s := strings.TrimSpace(g.City); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(g.Region); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(g.Country); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

const defaultIPAPIBase = "http://ip-api.com"

// IPAPIResolver implements LocationResolver using ip-api.com.
type IPAPIResolver struct {
	Client  *http.Client
	BaseURL string
}

func (r IPAPIResolver) Lookup(ctx context.Context, ip string) (Place, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return Place{}, fmt.Errorf("empty ip")
	}
	if r.Client == nil {
		r.Client = &http.Client{Timeout: 2 * time.Second}
	}
	base := r.BaseURL
	if base == "" {
		base = defaultIPAPIBase
	}

	url := fmt.Sprintf("%s/json/%s?fields=status,message,country,regionName,city,timezone", strings.TrimRight(base, "/"), ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Place{}, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return Place{}, err
	}
	defer resp.Body.Close()

	var body struct {
		Status     string `json:"status"`
		Message    string `json:"message"`
		Country    string `json:"country"`
		RegionName string `json:"regionName"`
		City       string `json:"city"`
		Timezone   string `json:"timezone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Place{}, err
	}
	if strings.ToLower(body.Status) != "success" {
		return Place{}, fmt.Errorf("location lookup failed: %s", body.Message)
	}
	return Place{City: body.City, Region: body.RegionName, Country: body.Country, Timezone: body.Timezone}, nil
}
