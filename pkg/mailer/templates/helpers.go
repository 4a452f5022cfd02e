package templates

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/academic-bridge/config"
)

// Option mutates EmailData before it is serialized into a job.
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
func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }
func WithResetURL(url string) Option  { return func(d *EmailData) { d.ResetURL = url } }
func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}
func WithCode(code string) Option { return func(d *EmailData) { d.Code = code } }

// WithProject fills the project title and its front-end link.
func WithProject(cfg *config.Config, id, title string) Option {
	return func(d *EmailData) {
		d.ProjectTitle = title
		if cfg != nil && cfg.ProjectURL != "" && id != "" {
			d.ProjectURL = cfg.ProjectURL + id
		}
	}
}

func WithStatus(status, label string) Option {
	return func(d *EmailData) {
		d.Status = status
		d.StatusLabel = label
	}
}

func WithTeam(names []string) Option { return func(d *EmailData) { d.TeamMembers = names } }
func WithScore(score float64) Option { return func(d *EmailData) { d.Score = score } }

func WithLocation(loc string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(loc); s != "" {
			d.Location = s
		}
	}
}

// WithGeoFromIP resolves ip and stores the formatted location; lookup
// failures leave Location empty.
func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			WithLocation(FormatGeo(g))(d)
		}
	}
}

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

// NewEmailData fills branding fields from config, sets the template type
// and recipient, then applies opts in order.
func NewEmailData(cfg *config.Config, typ, name, email string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
	}
	if cfg != nil {
		d.CompanyName = cfg.CompanyName
		d.CompanyAddress = cfg.CompanyAddress
		d.AppName = cfg.AppName
		d.LogoURL = cfg.LogoURL
		d.SupportURL = cfg.SupportURL
		d.PrivacyURL = cfg.PrivacyURL
		d.UnsubscribeURL = cfg.UnsubscribeURL
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
