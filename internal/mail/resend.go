package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	client *req.Client
}

func NewResendSender(baseURL, apiKey string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("resend: API key is empty")
	}
	client := req.C().
		SetBaseURL(baseURL).
		SetCommonBearerAuthToken(apiKey).
		SetCommonContentType("application/json")
	return &ResendSender{client: client}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	var (
		result resendResponse
		apiErr resendError
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&resendRequest{
			From:    msg.From,
			To:      []string{msg.To},
			Subject: msg.Subject,
			HTML:    msg.HTML,
		}).
		SetSuccessResult(&result).
		SetErrorResult(&apiErr).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("resend: send email: %w", err)
	}
	if resp.IsErrorState() {
		return "", fmt.Errorf("resend: API error: status %d: %s", resp.StatusCode, apiErr.Message)
	}

	return result.ID, nil
}
