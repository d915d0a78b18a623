package email

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Recipients returns every envelope recipient.
func (m Message) Recipients() []string {
	all := make([]string, 0, len(m.To)+len(m.Cc))
	all = append(all, m.To...)
	return append(all, m.Cc...)
}

// Build renders m as a multipart/mixed MIME message with a
// multipart/alternative body followed by base64 attachments.
func (m Message) Build() ([]byte, error) {
	if len(m.To) == 0 {
		return nil, errors.New("email has no recipients")
	}

	var raw bytes.Buffer
	writer := multipart.NewWriter(&raw)

	headers := fmt.Sprintf("From: %s\r\n", m.From)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(m.To, ", "))
	if len(m.Cc) > 0 {
		headers += fmt.Sprintf("Cc: %s\r\n", strings.Join(m.Cc, ", "))
	}
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", writer.Boundary())
	headers += "\r\n"
	raw.WriteString(headers)

	var alt bytes.Buffer
	altWriter := multipart.NewWriter(&alt)

	altPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + altWriter.Boundary()},
	})
	if err != nil {
		return nil, err
	}

	if m.Text != "" {
		if err := writeQuoted(altWriter, "text/plain; charset=UTF-8", m.Text); err != nil {
			return nil, err
		}
	}
	if m.HTML != "" {
		if err := writeQuoted(altWriter, "text/html; charset=UTF-8", m.HTML); err != nil {
			return nil, err
		}
	}
	if err := altWriter.Close(); err != nil {
		return nil, err
	}
	if _, err := altPart.Write(alt.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range m.Attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", fmt.Sprintf("%s; name=\"%s\"", att.ContentType, att.Filename))
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", att.Filename))
		h.Set("Content-Transfer-Encoding", "base64")

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, err
		}

		b := make([]byte, base64.StdEncoding.EncodedLen(len(att.Content)))
		base64.StdEncoding.Encode(b, att.Content)

		// wrap lines at 76 chars
		for i := 0; i < len(b); i += 76 {
			end := min(i+76, len(b))
			if _, err := part.Write(append(b[i:end:end], '\r', '\n')); err != nil {
				return nil, err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return raw.Bytes(), nil
}

func writeQuoted(w *multipart.Writer, contentType, body string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

// envelopeAddress strips a display name from a From header value.
func envelopeAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return from
	}
	return addr.Address
}
