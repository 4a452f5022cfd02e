package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/oksasatya/academic-bridge/pkg/mailer/templates"
)

// EmailTimeLayout is how times are shown in email bodies.
const EmailTimeLayout = "02 January 2006, 15:04 MST"

// localizedFields maps a machine-readable time key in email data to the
// human-readable key rendered by templates.
var localizedFields = [...]struct{ src, dst string }{
	{"ExpiresAt", "ExpiresAtText"},
	{"TimeAt", "Time"},
}

// LocalizeTimesIfPossible rewrites the human-readable time fields in data
// to the timezone of data["IP"]. Any lookup failure leaves data unchanged.
func LocalizeTimesIfPossible(ctx context.Context, resolver mailtpl.GeoResolver, data map[string]any) {
	if resolver == nil || data == nil {
		return
	}
	ip := strings.TrimSpace(fmt.Sprint(data["IP"]))
	if ip == "" || ip == "<nil>" {
		return
	}
	g, err := resolver.Lookup(ctx, ip)
	if err != nil || strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	for _, f := range localizedFields {
		if t, ok := asTime(data[f.src]); ok {
			data[f.dst] = t.In(loc).Format(EmailTimeLayout)
		}
	}
}

// asTime accepts a time.Time or the string forms produced by JSON and
// fmt. Zero times are rejected.
func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05 -0700 MST", "2006-01-02 15:04:05 -0700"} {
		if t, err := time.Parse(layout, s); err == nil && !t.IsZero() {
			return t, true
		}
	}
	return time.Time{}, false
}
