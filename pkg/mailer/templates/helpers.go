package templates

import (
	"context"
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func setLocation(d *EmailData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithLocation(loc string) Option {
	return func(d *EmailData) { setLocation(d, loc) }
}

func WithLocationFromIP(ctx context.Context, r LocationResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			setLocation(d, FormatPlace(g))
		}
	}
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// WithExpiresIn stamps the request time and the expiry that follows from dur.
func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		now := time.Now()
		WithTime(now)(d)
		WithExpiresAt(now.Add(dur))(d)
		d.ExpiresInMinutes = int(dur.Round(time.Minute) / time.Minute)
	}
}

// NewMagicLinkData builds the template data for the magic_link email.
func NewMagicLinkData(appName, email, link string, opts ...Option) map[string]any {
	d := EmailData{
		Email:          email,
		RecipientEmail: email,
		Type:           MagicLink,
		AppName:        appName,
		LinkURL:        link,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
