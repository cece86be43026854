package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

// SendEmail composes a raw HTML email and submits it through the user's
// remote mailbox.
func (u *syncUsecase) SendEmail(ctx context.Context, userID, to, cc, bcc, subject, body string) (string, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("user not found")
	}

	account, err := u.credential(userID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", errors.New("no mail account connected")
	}

	var msg bytes.Buffer

	if user.Name != "" && user.Email != "" {
		// Encode display name to handle non-ASCII characters (RFC 2047)
		encodedName := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(user.Name)))
		msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", encodedName, user.Email))
	}
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	if cc != "" {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", cc))
	}
	if bcc != "" {
		msg.WriteString(fmt.Sprintf("Bcc: %s\r\n", bcc))
	}
	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject)))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", encodedSubject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return u.mailSource.Send(ctx, account.AccessToken, account.RefreshToken, msg.Bytes(), u.makeTokenUpdateCallback(userID))
}
