package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/pkg/helpers"
	"github.com/oksasatya/recipes-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/recipes-auth/pkg/mailer/templates"
)

// Delivery outcome for one queue message.
type verdict int

const (
	ack verdict = iota
	drop
	retry
)

var errNoRecipient = errors.New("email job has no recipient")

type processor struct {
	sender   mailer.Sender
	resolver mailtpl.LocationResolver
	logger   *logrus.Logger
	timeout  time.Duration
}

// handle decodes, renders and sends one job. Jobs that can never succeed are dropped;
// send failures are retried.
func (p *processor) handle(ctx context.Context, body []byte) (verdict, error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return drop, fmt.Errorf("bad message: %w", err)
	}
	if job.To == "" {
		return drop, errNoRecipient
	}

	helpers.NormalizeTemplate(&job)
	helpers.EnsureRecipientAndEmail(&job)
	helpers.LocalizeTimesIfPossible(ctx, p.resolver, job.Data)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return drop, fmt.Errorf("render %s: %w", job.Template, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" {
		subject = helpers.SubjectFor(&job)
	}

	c, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.sender.Send(c, job.To, subject, text, html); err != nil {
		return retry, fmt.Errorf("send: %w", err)
	}
	p.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return ack, nil
}
