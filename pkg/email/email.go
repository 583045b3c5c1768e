package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// OrderConfirmationData carries the fields rendered into the order
// confirmation email.
type OrderConfirmationData struct {
	CustomerName      string
	OrderNumber       string
	Items             []OrderConfirmationItem
	Total             string
	EstimatedDelivery string
	OrdersURL         string
}

// OrderConfirmationItem is a single purchased line in the confirmation email.
type OrderConfirmationItem struct {
	Name     string
	Quantity int
	Price    string
}

// SendOrderConfirmation sends an order confirmation email
func (s *EmailService) SendOrderConfirmation(toEmail string, data OrderConfirmationData) error {
	data.OrdersURL = fmt.Sprintf("%s/orders", s.config.FrontendURL)

	htmlContent, err := s.renderOrderConfirmation(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your Terracottic order %s is confirmed", data.OrderNumber)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)
	return []byte(headers + htmlBody)
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #3d2b1f; max-width: 600px; margin: 0 auto;">
	<h2 style="color: #b5651d;">Thank you for your order, {{.CustomerName}}!</h2>
	<p>Your order <strong>{{.OrderNumber}}</strong> has been placed and is being processed.</p>
	<table style="width: 100%; border-collapse: collapse;">
		<tr style="border-bottom: 1px solid #e0d4c3;">
			<th align="left" style="padding: 8px 0;">Item</th>
			<th align="center" style="padding: 8px 0;">Qty</th>
			<th align="right" style="padding: 8px 0;">Price</th>
		</tr>
		{{range .Items}}
		<tr style="border-bottom: 1px solid #f0e8dc;">
			<td style="padding: 8px 0;">{{.Name}}</td>
			<td align="center" style="padding: 8px 0;">{{.Quantity}}</td>
			<td align="right" style="padding: 8px 0;">{{.Price}}</td>
		</tr>
		{{end}}
		<tr>
			<td colspan="2" align="right" style="padding: 12px 0;"><strong>Total</strong></td>
			<td align="right" style="padding: 12px 0;"><strong>{{.Total}}</strong></td>
		</tr>
	</table>
	<p>Estimated delivery: <strong>{{.EstimatedDelivery}}</strong></p>
	<p><a href="{{.OrdersURL}}" style="color: #b5651d;">Track your order</a></p>
	<p style="color: #8a7560; font-size: 12px;">Terracottic &mdash; handcrafted terracotta, delivered to your door.</p>
</body>
</html>
`

func (s *EmailService) renderOrderConfirmation(data OrderConfirmationData) (string, error) {
	tmpl, err := template.New("order_confirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
