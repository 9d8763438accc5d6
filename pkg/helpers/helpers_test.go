package helpers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipes-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/recipes-auth/pkg/mailer/templates"
)

type stubResolver struct {
	place mailtpl.Place
	err   error
}

func (s stubResolver) Lookup(context.Context, string) (mailtpl.Place, error) {
	return s.place, s.err
}

func TestLocalizeTimesIfPossible(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	data := map[string]any{
		"IP":        "203.0.113.7",
		"ExpiresAt": at.Format(time.RFC3339Nano),
		"TimeAt":    at.Add(-10 * time.Minute).Format(time.RFC3339Nano),
		"Location":  "",
	}
	LocalizeTimesIfPossible(context.Background(), stubResolver{place: mailtpl.Place{
		City: "Tokyo", Country: "Japan", Timezone: "Asia/Tokyo",
	}}, data)

	assert.Equal(t, "Tokyo, Japan", data["Location"])
	assert.Equal(t, "18 October 2026, 18:00 JST", data["ExpiresAtText"])
	assert.Equal(t, "18 October 2026, 17:50 JST", data["Time"])
}

func TestLocalizeTimesIfPossible_NoLookup(t *testing.T) {
	data := map[string]any{"IP": "203.0.113.7", "ExpiresAtText": "unchanged"}
	LocalizeTimesIfPossible(context.Background(), stubResolver{err: errors.New("offline")}, data)
	assert.Equal(t, "unchanged", data["ExpiresAtText"])

	LocalizeTimesIfPossible(context.Background(), nil, data)
	assert.Equal(t, "unchanged", data["ExpiresAtText"])
}

func TestJobMapping(t *testing.T) {
	job := &mailer.EmailJob{To: "ana@example.com", Template: " Magic-Link "}
	NormalizeTemplate(job)
	EnsureRecipientAndEmail(job)

	assert.Equal(t, mailtpl.MagicLink, job.Template)
	assert.Equal(t, "ana@example.com", job.Data["Email"])
	assert.Equal(t, "ana@example.com", job.Data["RecipientEmail"])
	assert.Equal(t, "Your sign-in link", SubjectFor(job))

	job.Subject = "Custom"
	assert.Equal(t, "Custom", SubjectFor(job))
}

func TestWriteCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteCookie(c, nil)
	assert.Empty(t, w.Header().Values("Set-Cookie"))

	WriteCookie(c, &http.Cookie{Name: "s", Value: "v", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	assert.Equal(t, "s=v; HttpOnly; SameSite=Lax", w.Header().Get("Set-Cookie"))
}

func TestLogError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	LogError(logger, "boom", errors.New("db down"), logrus.Fields{"op": "find"})

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, logrus.ErrorLevel, entry.Level)
		assert.Equal(t, "db down", entry.Data["error"])
		assert.Equal(t, "find", entry.Data["op"])
	}
	assert.NotPanics(t, func() { LogError(nil, "x", nil, nil) })
}

func TestRedisReady(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	defer func() { _ = rdb.Close() }()
	assert.NoError(t, RedisReady(context.Background(), rdb))

	mr.Close()
	assert.Error(t, RedisReady(context.Background(), rdb))
}

func TestESReady(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"}}`))
	}))
	defer srv.Close()

	es, err := NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	assert.NoError(t, ESReady(context.Background(), es))

	status = http.StatusUnauthorized
	assert.Error(t, ESReady(context.Background(), es))
}
