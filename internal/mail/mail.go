// Package mail sends the report email: an HTML table body with the
// stability column colorized, plus the generated report files attached.
package mail

import (
	"fmt"
	"html"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/skarev/cistat/internal/report"
)

// Config carries SMTP transport settings and addressing.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
	CC         []string
}

// Stability color bands for the HTML body, in percent. Same thresholds as
// the terminal renderer.
const (
	stabilityGood = 95
	stabilityWarn = 80
)

// HTMLBody renders rows as the email's HTML table. Unlike the report
// attachment, the stability cell carries inline color styling so the
// band is visible in any mail client.
func HTMLBody(rows []report.Row) string {
	var sb strings.Builder
	sb.WriteString("<html><body>\n<h2>Jenkins Daily Report</h2>\n")
	sb.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">\n<thead><tr>")
	for _, h := range report.Header {
		sb.WriteString("<th>" + h + "</th>")
	}
	sb.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for i, field := range row.Fields() {
			if report.Header[i] == "stability" {
				sb.WriteString(colorizeStability(row.Stability))
				continue
			}
			sb.WriteString("<td>" + html.EscapeString(field) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n</body></html>\n")
	return sb.String()
}

func colorizeStability(v float64) string {
	color := "red"
	switch {
	case v >= stabilityGood:
		color = "green"
	case v >= stabilityWarn:
		color = "orange"
	}
	return fmt.Sprintf(`<td style="color:%s;font-weight:bold">%.2f</td>`, color, v)
}

// Send delivers the report over SMTP with implicit TLS (port 465 style).
func Send(cfg Config, subject, htmlBody string, attachments []string) error {
	msg := gomail.NewMsg()
	if err := msg.From(cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(cfg.Recipients...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	if len(cfg.CC) > 0 {
		if err := msg.Cc(cfg.CC...); err != nil {
			return fmt.Errorf("invalid cc address: %w", err)
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)
	for _, path := range attachments {
		msg.AttachFile(path)
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}
