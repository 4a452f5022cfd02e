package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"slices"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData is the payload of the universal template. Jobs carry it as a
// map so producers and the worker can evolve independently.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`


	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`


	ResetURL   string `json:"ResetURL"`
	VerifyURL  string `json:"VerifyURL"`
	ProjectURL string `json:"ProjectURL"`

	// Project notifications
	ProjectTitle string   `json:"ProjectTitle"`
	Status       string   `json:"Status"`
	StatusLabel  string   `json:"StatusLabel"`
	TeamMembers  []string `json:"TeamMembers"`
	Score        float64  `json:"Score"`


	ExpiresAt     time.Time         `json:"ExpiresAt"`
	ExpiresAtText string            `json:"ExpiresAtText"`
	IP            string            `json:"IP"`
	Time          string            `json:"Time"`
	TimeAt        time.Time         `json:"TimeAt"`
	UserAgent     string            `json:"UserAgent"`
	Location      string            `json:"Location"`
	Changes       map[string]string `json:"Changes"`
	Code          string            `json:"Code"` // OTP
}

// ToMap converts d to the generic form stored in EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn backs {{ .Value | default "Fallback" }}; blank strings and
// zero values take the fallback.
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.IsZero() {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"default":    defaultFn,
		"eq":         func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
		"upper":      strings.ToUpper,
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// Template type names. Each is rendered by the universal layout.
const (
	VerifyEmail          = "verify_email"
	ForgotPassword       = "forgot_password"
	LoginOTP             = "login_otp"
	ProfileUpdated       = "profile_updated"
	ProjectSubmitted     = "project_submitted"
	ProjectStatusChanged = "project_status_changed"
	TeamAssigned         = "team_assigned"
	EvaluationReceived   = "evaluation_received"
)

// Types lists every known template type.
var Types = []string{
	VerifyEmail, ForgotPassword, LoginOTP, ProfileUpdated,
	ProjectSubmitted, ProjectStatusChanged, TeamAssigned, EvaluationReceived,
}

// IsKnownType reports whether t names a universal template type.
func IsKnownType(t string) bool {
	return slices.Contains(Types, strings.ToLower(strings.TrimSpace(t)))
}

type executor interface {
	Execute(w io.Writer, data any) error
}

var parsed sync.Map // filename -> executor

// lookup parses filename from FS on first use and caches the result.
// Files ending in .html.tmpl use html/template for escaping.
func lookup(filename string) (executor, error) {
	if t, ok := parsed.Load(filename); ok {
		return t.(executor), nil
	}
	var (
		t   executor
		err error
	)
	if strings.HasSuffix(filename, ".html.tmpl") {
		t, err = htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
	} else {
		t, err = texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", filename, err)
	}
	actual, _ := parsed.LoadOrStore(filename, t)
	return actual.(executor), nil
}

func renderFile(filename string, data any) (string, error) {
	t, err := lookup(filename)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render produces the subject, plain-text and HTML bodies of template name
// from <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	parts := [3]string{}
	for i, ext := range [3]string{".subject.tmpl", ".text.tmpl", ".html.tmpl"} {
		if parts[i], err = renderFile(name+ext, data); err != nil {
			return "", "", "", err
		}
	}
	return strings.TrimSpace(parts[0]), parts[1], parts[2], nil
}

// RenderHTML renders <name>.html.tmpl.
func RenderHTML(name string, data any) (string, error) { return renderFile(name+".html.tmpl", data) }

// RenderText renders <name>.text.tmpl.
func RenderText(name string, data any) (string, error) { return renderFile(name+".text.tmpl", data) }
