package mailparse

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"postbox-backend/internal/email/domain"

	"github.com/emersion/go-message/mail"
)

// ParsedEmail holds the structured fields extracted from one raw RFC-5322
// message. Optional fields are zero-valued when absent; callers decide
// whether a missing field makes the message unsupported.
type ParsedEmail struct {
	Subject   string
	From      []domain.Address
	To        []domain.Address
	Cc        []domain.Address
	Bcc       []domain.Address
	ReplyTo   []domain.Address
	Date      time.Time
	MessageID string
	InReplyTo string
	Priority  string
	PlainText string
	HTML      string
	Headers   []domain.HeaderLine
}

// Parse parses a raw email into structured fields.
func Parse(raw []byte) (*ParsedEmail, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}
	defer mr.Close()

	header := mr.Header
	parsed := &ParsedEmail{}

	if subject, err := header.Subject(); err == nil {
		parsed.Subject = subject
	}

	if date, err := header.Date(); err == nil {
		parsed.Date = date
	}

	if messageID, err := header.MessageID(); err == nil {
		parsed.MessageID = messageID
	}

	if ids, err := header.MsgIDList("In-Reply-To"); err == nil && len(ids) > 0 {
		parsed.InReplyTo = ids[0]
	}

	parsed.Priority = header.Get("X-Priority")

	if from, err := header.AddressList("From"); err == nil {
		parsed.From = FlattenAddresses(from)
	}
	if to, err := header.AddressList("To"); err == nil {
		parsed.To = FlattenAddresses(to)
	}
	if cc, err := header.AddressList("Cc"); err == nil {
		parsed.Cc = FlattenAddresses(cc)
	}
	if bcc, err := header.AddressList("Bcc"); err == nil {
		parsed.Bcc = FlattenAddresses(bcc)
	}
	if replyTo, err := header.AddressList("Reply-To"); err == nil {
		parsed.ReplyTo = FlattenAddresses(replyTo)
	}

	parsed.Headers = headerLines(&header)

	var textBody, htmlBody strings.Builder
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			// Attachments are not mirrored, only inline bodies
			continue
		}

		contentType, _, _ := h.ContentType()
		b, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			textBody.Write(b)
		case "text/html":
			htmlBody.Write(b)
		}
	}

	parsed.PlainText = textBody.String()
	parsed.HTML = htmlBody.String()

	return parsed, nil
}

// headerLines captures every raw header field as a {key, line} pair in its
// original order and casing.
func headerLines(header *mail.Header) []domain.HeaderLine {
	var lines []domain.HeaderLine
	fields := header.Fields()
	for fields.Next() {
		lines = append(lines, domain.HeaderLine{
			Key:  fields.Key(),
			Line: fields.Key() + ": " + fields.Value(),
		})
	}
	// Fields iterates most-recently-added first, which for a parsed message
	// is bottom-up. Reverse back to wire order.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

// ToAddresses normalizes one parsed address header into name/email records.
// Absent sub-fields degrade to empty strings.
func ToAddresses(list []*mail.Address) []domain.Address {
	out := make([]domain.Address, 0, len(list))
	for _, addr := range list {
		if addr == nil {
			continue
		}
		out = append(out, domain.Address{
			Name:  addr.Name,
			Email: addr.Address,
		})
	}
	return out
}

// FlattenAddresses normalizes one or more address headers into a single flat
// list, preserving input order and expanding every multi-value header.
func FlattenAddresses(lists ...[]*mail.Address) []domain.Address {
	out := make([]domain.Address, 0)
	for _, list := range lists {
		out = append(out, ToAddresses(list)...)
	}
	return out
}
