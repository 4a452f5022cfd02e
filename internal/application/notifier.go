package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/config"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/mailer"
	tpl "github.com/oksasatya/academic-bridge/pkg/mailer/templates"
)

// Publisher puts a JSON job on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier turns domain events into email jobs.
// Account mails (verify, reset, sign-in code) are always sent when a
// publisher exists; project mails also honour the notification settings.
type Notifier struct {
	Pub      Publisher
	Cfg      *config.Config
	Settings *SettingsService
	Geo      tpl.GeoResolver
	Logger   *logrus.Logger
}

func NewNotifier(pub Publisher, cfg *config.Config, settings *SettingsService, geo tpl.GeoResolver, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Cfg: cfg, Settings: settings, Geo: geo, Logger: logger}
}

func (n *Notifier) canSend() bool {
	return n != nil && n.Pub != nil && (n.Cfg == nil || n.Cfg.MailSendEnabled)
}

func (n *Notifier) projectMailAllowed(ctx context.Context) bool {
	if !n.canSend() {
		return false
	}
	st := n.Settings.Current(ctx)
	return st.EmailNotifications && st.ProjectUpdates
}

func (n *Notifier) requestOpts(ctx context.Context, meta RequestMeta) []tpl.Option {
	return []tpl.Option{
		tpl.WithTime(time.Now()),
		tpl.WithIP(meta.IP),
		tpl.WithUserAgent(meta.UserAgent),
		tpl.WithGeoFromIP(ctx, n.Geo, meta.IP),
	}
}

func (n *Notifier) enqueue(ctx context.Context, to string, data map[string]any) {
	job := mailer.EmailJob{To: to, Template: "universal", Data: data}
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		helpers.LogError(n.Logger, "enqueue email failed", err, logrus.Fields{"to": to, "type": data["Type"]})
	}
}

func (n *Notifier) VerifyEmail(ctx context.Context, u *entity.User, link string, ttl time.Duration, meta RequestMeta) {
	if !n.canSend() {
		return
	}
	opts := append(n.requestOpts(ctx, meta), tpl.WithVerifyURL(link), tpl.WithExpiresIn(ttl))
	n.enqueue(ctx, u.Email, tpl.NewEmailData(n.Cfg, tpl.VerifyEmail, u.FullName, u.Email, opts...))
}

func (n *Notifier) ResetPassword(ctx context.Context, u *entity.User, link string, ttl time.Duration, meta RequestMeta) {
	if !n.canSend() {
		return
	}
	opts := append(n.requestOpts(ctx, meta), tpl.WithResetURL(link), tpl.WithExpiresIn(ttl))
	n.enqueue(ctx, u.Email, tpl.NewEmailData(n.Cfg, tpl.ForgotPassword, u.FullName, u.Email, opts...))
}

func (n *Notifier) LoginCode(ctx context.Context, u *entity.User, code string, ttl time.Duration, meta RequestMeta) {
	if !n.canSend() {
		return
	}
	opts := append(n.requestOpts(ctx, meta), tpl.WithCode(code), tpl.WithExpiresIn(ttl))
	n.enqueue(ctx, u.Email, tpl.NewEmailData(n.Cfg, tpl.LoginOTP, u.FullName, u.Email, opts...))
}

func (n *Notifier) ProfileUpdated(ctx context.Context, u *entity.User, changes map[string]string, meta RequestMeta) {
	if !n.canSend() || len(changes) == 0 {
		return
	}
	if !n.Settings.Current(ctx).EmailNotifications {
		return
	}
	opts := append(n.requestOpts(ctx, meta), tpl.WithChanges(changes))
	n.enqueue(ctx, u.Email, tpl.NewEmailData(n.Cfg, tpl.ProfileUpdated, u.FullName, u.Email, opts...))
}

func (n *Notifier) ProjectSubmitted(ctx context.Context, p *entity.Project, client *entity.User) {
	if client == nil || !n.projectMailAllowed(ctx) {
		return
	}
	n.enqueue(ctx, client.Email, tpl.NewEmailData(n.Cfg, tpl.ProjectSubmitted, client.FullName, client.Email,
		tpl.WithProject(n.Cfg, p.ID, p.Title),
		tpl.WithStatus(string(p.Status), p.Status.Label()),
	))
}

func (n *Notifier) StatusChanged(ctx context.Context, p *entity.Project, client *entity.User) {
	if client == nil || !n.projectMailAllowed(ctx) {
		return
	}
	n.enqueue(ctx, client.Email, tpl.NewEmailData(n.Cfg, tpl.ProjectStatusChanged, client.FullName, client.Email,
		tpl.WithProject(n.Cfg, p.ID, p.Title),
		tpl.WithStatus(string(p.Status), p.Status.Label()),
	))
}

// TeamAssigned mails each newly added member with the full team roster.
func (n *Notifier) TeamAssigned(ctx context.Context, p *entity.Project, added []entity.User) {
	if len(added) == 0 || !n.projectMailAllowed(ctx) {
		return
	}
	names := make([]string, 0, len(p.TeamMembers))
	for _, m := range p.TeamMembers {
		names = append(names, m.FullName)
	}
	for _, u := range added {
		n.enqueue(ctx, u.Email, tpl.NewEmailData(n.Cfg, tpl.TeamAssigned, u.FullName, u.Email,
			tpl.WithProject(n.Cfg, p.ID, p.Title),
			tpl.WithTeam(names),
		))
	}
}

func (n *Notifier) EvaluationReceived(ctx context.Context, p *entity.Project, score float64) {
	if !n.projectMailAllowed(ctx) {
		return
	}
	for _, m := range p.TeamMembers {
		n.enqueue(ctx, m.Email, tpl.NewEmailData(n.Cfg, tpl.EvaluationReceived, m.FullName, m.Email,
			tpl.WithProject(n.Cfg, p.ID, p.Title),
			tpl.WithScore(score),
		))
	}
}
