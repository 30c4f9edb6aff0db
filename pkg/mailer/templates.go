package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/havenfurnitures/storefront-api/pkg/config"
)

// Business identifies the shop in outgoing mail.
type Business struct {
	Name  string
	Email string
	Phone string
}

// BusinessFromConfig reads the shop identity from the SMTP settings.
func BusinessFromConfig(cfg config.SMTPConfig) Business {
	return Business{
		Name:  strings.TrimSpace(cfg.BusinessName),
		Email: strings.TrimSpace(cfg.BusinessEmail),
		Phone: strings.TrimSpace(cfg.BusinessPhone),
	}
}

// Inquiry is the data shown in interest notifications.
type Inquiry struct {
	Name        string
	Email       string
	Phone       string
	Message     string
	ProductName string
	Category    string
	Price       string
}

var templates = template.Must(template.New("mail").Parse(`
{{define "inquiry"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #8B4513;">New Customer Inquiry - {{.Business.Name}}</h2>
  <div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Customer Information</h3>
    <p><strong>Name:</strong> {{.Inquiry.Name}}</p>
    <p><strong>Email:</strong> {{.Inquiry.Email}}</p>
    <p><strong>Phone:</strong> {{.Inquiry.Phone}}</p>
  </div>
  <div style="background-color: #f0f8ff; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Product Interest</h3>
    <p><strong>Product:</strong> {{.Inquiry.ProductName}}</p>
    {{- with .Inquiry.Category}}
    <p><strong>Category:</strong> {{.}}</p>
    {{- end}}
    {{- with .Inquiry.Price}}
    <p><strong>Price:</strong> ${{.}}</p>
    {{- end}}
  </div>
  {{- if .Inquiry.Message}}
  <div style="background-color: #fff8dc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Customer Message</h3>
    <p style="line-height: 1.6;">{{.Inquiry.Message}}</p>
  </div>
  {{- end}}
  <p style="color: #666; font-size: 14px;">This inquiry was submitted through the {{.Business.Name}} website.<br>Please respond to the customer within 24 hours.</p>
</div>{{end}}

{{define "confirmation"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #8B4513;">Thank You for Your Inquiry!</h2>
  <p>Dear {{.Inquiry.Name}},</p>
  <p>Thank you for your interest in our <strong>{{.Inquiry.ProductName}}</strong>. We have received your inquiry and will get back to you within 24 hours.</p>
  <div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Your Inquiry Details</h3>
    <p><strong>Product:</strong> {{.Inquiry.ProductName}}</p>
    {{- with .Inquiry.Category}}
    <p><strong>Category:</strong> {{.}}</p>
    {{- end}}
    {{- with .Inquiry.Price}}
    <p><strong>Price:</strong> ${{.}}</p>
    {{- end}}
  </div>
  <div style="background-color: #f0f8ff; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Visit Our Store</h3>
    <ul style="line-height: 1.8;">
      <li>Monday - Saturday: 8:00 AM - 7:00 PM</li>
      <li>Sunday: 12:00 PM - 6:00 PM</li>
    </ul>
    {{- if .Business.Phone}}<p>Call us: {{.Business.Phone}}</p>{{end}}
  </div>
  <p>We look forward to helping you find the perfect furniture for your home!</p>
  <p>Best regards,<br><strong>{{.Business.Name}} Team</strong></p>
</div>{{end}}

{{define "subscriber"}}<h3>New Subscriber</h3><p>Email: {{.Email}}</p>{{end}}

{{define "welcome"}}<h3>Thank you for subscribing!</h3><p>You'll now receive updates on new arrivals and exclusive offers from {{.Business.Name}}.</p>{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// CustomerInquiry notifies the business inbox about a new interest.
func CustomerInquiry(b Business, in Inquiry) (Message, error) {
	html, err := render("inquiry", map[string]any{"Business": b, "Inquiry": in})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{b.Email},
		ReplyTo: in.Email,
		Subject: "New Customer Inquiry - " + in.ProductName,
		HTML:    html,
		Text: fmt.Sprintf("New inquiry from %s (%s, %s) about %s.\n%s",
			in.Name, in.Email, in.Phone, in.ProductName, in.Message),
	}, nil
}

// CustomerConfirmation acknowledges an interest to the customer.
func CustomerConfirmation(b Business, in Inquiry) (Message, error) {
	html, err := render("confirmation", map[string]any{"Business": b, "Inquiry": in})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{in.Email},
		Subject: "Thank you for your inquiry - " + b.Name,
		HTML:    html,
		Text: confirmationText(b, in),
	}, nil
}

func confirmationText(b Business, in Inquiry) string {
	text := fmt.Sprintf("Dear %s, thank you for your interest in our %s. We will get back to you within 24 hours.",
		in.Name, in.ProductName)
	if b.Phone != "" {
		text += "\nCall us: " + b.Phone
	}
	return text
}

// NewsletterSubscriber tells the business inbox about a new subscriber.
func NewsletterSubscriber(b Business, email string) (Message, error) {
	html, err := render("subscriber", map[string]any{"Email": email})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{b.Email},
		Subject: "New Newsletter Subscription",
		HTML:    html,
		Text:    "New subscriber: " + email,
	}, nil
}

// NewsletterWelcome thanks the subscriber.
func NewsletterWelcome(b Business, email string) (Message, error) {
	html, err := render("welcome", map[string]any{"Business": b})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{email},
		Subject: "Thank you for subscribing!",
		HTML:    html,
		Text:    fmt.Sprintf("Thank you for subscribing to the %s newsletter.", b.Name),
	}, nil
}
