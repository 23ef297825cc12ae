package services

import (
	"fmt"

	"github.com/resendlabs/resend-go"
)

// EmailService delivers OTP and booking-confirmation mail. Delivery is
// an external collaborator: callers treat every error as non-fatal so a
// failed send never blocks login or booking flows.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	skipSend  bool
}

func NewEmailService(apiKey, fromEmail string, skipSend bool) (*EmailService, error) {
	if !skipSend && apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is not set")
	}

	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		skipSend:  skipSend,
	}, nil
}

func (s *EmailService) SendOTP(email, code string, expiryMinutes int) error {
	if s.skipSend {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: "Your Courtbook Login Code",
		Html: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Courtbook Login Code</h2>
				<p>Your one-time password is:</p>
				<div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 8px; margin: 20px 0;">
					%s
				</div>
				<p style="color: #666;">This code will expire in %d minutes.</p>
				<p style="color: #666;">If you didn't try to log in, please ignore this email.</p>
			</div>
		`, code, expiryMinutes),
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *EmailService) SendBookingConfirmation(email, courtName, date, slotLabel string) error {
	if s.skipSend {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: "Booking Confirmed",
		Html: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Your booking is confirmed</h2>
				<p><strong>Court:</strong> %s</p>
				<p><strong>Date:</strong> %s</p>
				<p><strong>Time:</strong> %s</p>
				<p style="color: #666;">Show the QR code from your bookings page at check-in.</p>
			</div>
		`, courtName, date, slotLabel),
	}

	_, err := s.client.Emails.Send(params)
	return err
}
