package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/mail"

	"github.com/zugo-hr/attendance-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService sends the application's templated mail.
type EmailService interface {
	SendMonthlyReport(ctx context.Context, mail MonthlyReportMail) error
}

// MonthlyReportMail is the monthly attendance export sent to HR.
type MonthlyReportMail struct {
	To         []string
	Cc         []string
	Period     string // e.g. "2026-09"
	MonthLabel string // e.g. "September 2026"
	Rows       int
	Employees  int
	Attachment Attachment
}

type mailer struct {
	sender    Sender
	from      string
	templates *template.Template
}

// NewEmailService parses the embedded templates and sends through sender.
func NewEmailService(sender Sender, cfg config.EmailConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	from := cfg.From
	if cfg.FromName != "" {
		from = (&mail.Address{Name: cfg.FromName, Address: cfg.From}).String()
	}

	return &mailer{sender: sender, from: from, templates: tmpl}, nil
}

func (m *mailer) SendMonthlyReport(ctx context.Context, data MonthlyReportMail) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, "monthly_report.html", data); err != nil {
		return fmt.Errorf("failed to render monthly report template: %w", err)
	}

	text := fmt.Sprintf("Dear HR Team,\r\n\r\nPlease find attached the attendance report for %s.\r\n"+
		"It contains %d records from %d employees.\r\n\r\nRegards,\r\nAttendance System\r\n",
		data.MonthLabel, data.Rows, data.Employees)

	return m.sender.Send(ctx, Message{
		From:        m.from,
		To:          data.To,
		Cc:          data.Cc,
		Subject:     "Monthly Attendance Report " + data.Period,
		Text:        text,
		HTML:        body.String(),
		Attachments: []Attachment{data.Attachment},
	})
}
