package services

import (
	"fmt"
	"html/template"
	"strings"

	"agency-backoffice-api/models"
)

func buildFormalEmailHTML(subject, recipientName, bodyHTML string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "there"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Hello %s,", name))

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    %s
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, bodyHTML)
}

// BuildExpiryDigestHTML lists the expiry alerts created by one job run.
func BuildExpiryDigestHTML(created []models.Notification) string {
	var b strings.Builder
	b.WriteString(`<p style="margin:0 0 12px 0;font-size:16px;line-height:1.7;color:#111827;">The following policies expire within the next 10 days:</p><ul>`)
	for _, n := range created {
		b.WriteString("<li>")
		b.WriteString(template.HTMLEscapeString(n.Message))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return buildFormalEmailHTML("Policies expiring soon", "", b.String())
}

// BuildPasswordResetHTML renders the reset link e-mail.
func BuildPasswordResetHTML(recipientName, link string) string {
	escaped := template.HTMLEscapeString(link)
	body := fmt.Sprintf(`<p style="margin:0 0 12px 0;font-size:16px;line-height:1.7;color:#111827;">We received a request to reset your password. The link below is valid for one hour.</p>
    <p style="margin:0;font-size:16px;line-height:1.7;"><a href="%s">%s</a></p>`, escaped, escaped)
	return buildFormalEmailHTML("Reset your password", recipientName, body)
}
