package mail

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
)

// Compose renders msg as a multipart/alternative MIME document and returns
// it together with the generated Message-ID.
func Compose(msg *Message) ([]byte, string, error) {
	if err := validateMessage(msg); err != nil {
		return nil, "", err
	}

	var h mail.Header
	h.SetDate(time.Now())
	h.SetSubject(msg.Subject)

	if msg.From != "" {
		from, err := mail.ParseAddress(msg.From)
		if err != nil {
			return nil, "", fmt.Errorf("parse from address: %w", err)
		}
		h.SetAddressList("From", []*mail.Address{from})
	}

	to := make([]*mail.Address, 0, len(msg.To))
	for _, addr := range msg.To {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			return nil, "", fmt.Errorf("parse recipient %q: %w", addr, err)
		}
		to = append(to, parsed)
	}
	h.SetAddressList("To", to)

	if msg.ReplyTo != "" {
		replyTo, err := mail.ParseAddress(msg.ReplyTo)
		if err != nil {
			return nil, "", fmt.Errorf("parse reply-to address: %w", err)
		}
		h.SetAddressList("Reply-To", []*mail.Address{replyTo})
	}

	if err := h.GenerateMessageID(); err != nil {
		return nil, "", fmt.Errorf("generate message id: %w", err)
	}
	messageID, err := h.MessageID()
	if err != nil {
		return nil, "", fmt.Errorf("read message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateInlineWriter(&buf, h)
	if err != nil {
		return nil, "", fmt.Errorf("create message writer: %w", err)
	}

	if err := writePart(w, "text/plain", msg.Text); err != nil {
		return nil, "", err
	}
	if msg.HTML != "" {
		if err := writePart(w, "text/html", msg.HTML); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close message writer: %w", err)
	}
	return buf.Bytes(), messageID, nil
}

func writePart(w *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := w.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		pw.Close()
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	return pw.Close()
}
