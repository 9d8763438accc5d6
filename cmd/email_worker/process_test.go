package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipes-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/recipes-auth/pkg/mailer/templates"
)

type sent struct {
	to, subject, text, html string
}

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html})
	return nil
}

func newProcessor(s mailer.Sender) *processor {
	logger, _ := test.NewNullLogger()
	return &processor{sender: s, logger: logger, timeout: time.Second}
}

func body(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandle_MagicLink(t *testing.T) {
	s := &fakeSender{}
	p := newProcessor(s)

	job := mailer.EmailJob{
		To:       "ana@example.com",
		Template: mailtpl.MagicLink,
		Data:     mailtpl.NewMagicLinkData("Recipes", "ana@example.com", "https://recipes.test/validate-magic-link?magic=t"),
	}
	v, err := p.handle(context.Background(), body(t, job))
	require.NoError(t, err)
	assert.Equal(t, ack, v)

	require.Len(t, s.sent, 1)
	assert.Equal(t, "ana@example.com", s.sent[0].to)
	assert.Equal(t, "Your Recipes sign-in link", s.sent[0].subject)
	assert.Contains(t, s.sent[0].text, "magic=t")
	assert.Contains(t, s.sent[0].html, "magic=t")
}

func TestHandle_PlainJob(t *testing.T) {
	s := &fakeSender{}
	v, err := newProcessor(s).handle(context.Background(), body(t, mailer.EmailJob{To: "a@b.c", Text: "hello"}))
	require.NoError(t, err)
	assert.Equal(t, ack, v)
	assert.Equal(t, "Notification", s.sent[0].subject)
}

func TestHandle_Failures(t *testing.T) {
	cases := []struct {
		title  string
		sender *fakeSender
		body   []byte
		want   verdict
	}{
		{title: "not json", sender: &fakeSender{}, body: []byte("{"), want: drop},
		{title: "no recipient", sender: &fakeSender{}, body: []byte(`{"text":"x"}`), want: drop},
		{title: "unknown template", sender: &fakeSender{}, body: []byte(`{"to":"a@b.c","template":"nope"}`), want: drop},
		{title: "send error", sender: &fakeSender{err: errors.New("mailgun down")}, body: []byte(`{"to":"a@b.c","text":"x"}`), want: retry},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			v, err := newProcessor(tc.sender).handle(context.Background(), tc.body)
			assert.Error(t, err)
			assert.Equal(t, tc.want, v)
			assert.Empty(t, tc.sender.sent)
		})
	}
}
