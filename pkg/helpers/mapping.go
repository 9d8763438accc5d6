package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/recipes-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/recipes-auth/pkg/mailer/templates"
)

// SubjectFor returns a fallback subject for a job whose template did not render one.
func SubjectFor(job *mailer.EmailJob) string {
	if job.Subject != "" {
		return job.Subject
	}
	switch strings.ToLower(job.Template) {
	case mailtpl.MagicLink:
		return "Your sign-in link"
	default:
		return "Notification"
	}
}

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

// NormalizeTemplate lower-cases the template name and maps older aliases.
func NormalizeTemplate(job *mailer.EmailJob) {
	name := strings.ToLower(strings.TrimSpace(job.Template))
	switch name {
	case "magic-link", "magiclink", "login_link":
		name = mailtpl.MagicLink
	}
	job.Template = name
}
