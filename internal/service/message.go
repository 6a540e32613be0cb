package service

import (
	"bytes"
	htmltemplate "html/template"
	"net/mail"
	"text/template"

	"github.com/osa911/portfolio/internal/api/sanitization"
	"github.com/osa911/portfolio/internal/contact"
	mailer "github.com/osa911/portfolio/internal/mail"
)

// SubmissionInfo carries request metadata that is appended to the
// notification for the site owner.
type SubmissionInfo struct {
	RequestID string
	IPAddress string
	UserAgent string
	Referrer  string
}

type messageData struct {
	Name    string
	Email   string
	Subject string
	Message string
	Info    SubmissionInfo
}

var textTemplate = template.Must(template.New("contact-text").Parse(`New contact request

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

{{.Message}}

--
Sent from the portfolio contact form
{{- if .Info.IPAddress}}
IP: {{.Info.IPAddress}}{{end}}
{{- if .Info.UserAgent}}
User agent: {{.Info.UserAgent}}{{end}}
{{- if .Info.Referrer}}
Referrer: {{.Info.Referrer}}{{end}}
{{- if .Info.RequestID}}
Request: {{.Info.RequestID}}{{end}}
`))

// html/template escapes every interpolated value.
var htmlTemplate = htmltemplate.Must(htmltemplate.New("contact-html").Parse(`<h2>New Contact Request</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p style="white-space: pre-wrap">{{.Message}}</p>
`))

// BuildMessage turns a form into the owner notification: From is the
// visitor, To is owner, Subject is "New message from {name}".
func BuildMessage(form contact.FormState, owner string, info SubmissionInfo) (*mailer.Message, error) {
	if owner == "" {
		return nil, mailer.ErrNotConfigured
	}

	form = form.Trimmed()
	data := messageData{
		Name:    sanitization.SanitizeHeader(form.Name),
		Email:   sanitization.SanitizeEmail(form.Email),
		Subject: sanitization.SanitizeHeader(form.Subject),
		Message: form.Message,
		Info: SubmissionInfo{
			RequestID: info.RequestID,
			IPAddress: sanitization.SanitizeHeader(info.IPAddress),
			UserAgent: sanitization.SanitizeHeader(info.UserAgent),
			Referrer:  sanitization.SanitizeHeader(info.Referrer),
		},
	}

	var text bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return nil, err
	}
	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return nil, err
	}

	from := (&mail.Address{Name: data.Name, Address: data.Email}).String()
	replyTo := (&mail.Address{Address: data.Email}).String()

	return &mailer.Message{
		From:    from,
		ReplyTo: replyTo,
		To:      []string{owner},
		Subject: "New message from " + data.Name,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
