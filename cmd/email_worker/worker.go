package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/mailer"
	mailtpl "github.com/oksasatya/academic-bridge/pkg/mailer/templates"
)

// outcome tells the consumer loop how to settle a delivery.
type outcome int

const (
	ack outcome = iota
	drop
	retry
)

var errIncomplete = errors.New("job needs a recipient and either a template or subject with body")

type worker struct {
	sender   mailer.Sender
	resolver mailtpl.GeoResolver
	logger   *logrus.Logger
	timeout  time.Duration
}

// handle decodes, renders and sends one queued job. Jobs that can never
// succeed are dropped; transport failures are retried.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogWarn(w.logger, "bad message", err, nil)
		return drop
	}
	subject, text, html, err := w.render(ctx, &job)
	if err != nil {
		helpers.LogWarn(w.logger, "render failed", err, logrus.Fields{"template": job.Template, "to": job.To})
		return drop
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.sender.Send(sendCtx, job.To, subject, text, html); err != nil {
		helpers.LogError(w.logger, "send failed", err, logrus.Fields{"to": job.To})
		return retry
	}
	helpers.LogInfo(w.logger, "email sent", logrus.Fields{"to": job.To, "type": job.Data["Type"]})
	return ack
}

func (w *worker) render(ctx context.Context, job *mailer.EmailJob) (string, string, string, error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", errIncomplete
	}
	helpers.EnsureRecipientAndEmail(job)
	helpers.MapTypeToUniversal(job)

	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errIncomplete
		}
		return job.Subject, job.Text, job.HTML, nil
	}

	if w.resolver != nil {
		helpers.LocalizeTimesIfPossible(ctx, w.resolver, job.Data)
		if loc, _ := job.Data["Location"].(string); loc == "" {
			if ip, ok := job.Data["IP"].(string); ok && ip != "" {
				if g, err := w.resolver.Lookup(ctx, ip); err == nil {
					job.Data["Location"] = mailtpl.FormatGeo(g)
				}
			}
		}
	}
	subject, text, html, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}
