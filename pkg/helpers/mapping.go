package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/academic-bridge/pkg/mailer"
	mailtpl "github.com/oksasatya/academic-bridge/pkg/mailer/templates"
)

// EnsureRecipientAndEmail copies job.To into the template data when the
// producer left the recipient fields empty.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// MapTypeToUniversal rewrites a job addressed by type name ("team_assigned")
// to the universal layout with Data.Type set.
func MapTypeToUniversal(job *mailer.EmailJob) {
	name := strings.ToLower(strings.TrimSpace(job.Template))
	if !mailtpl.IsKnownType(name) {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Type"] = name
	}
	job.Template = "universal"
}
