// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendReceipt(toEmail string, receipt Receipt) error
}

type ReceiptLine struct {
	Name     string
	Quantity int
	Price    float64
}

// Receipt is the payment confirmation sent after a purchase, renewal or upgrade.
type Receipt struct {
	CustomerName    string
	Title           string
	PaymentId       string
	Lines           []ReceiptLine
	Total           float64
	Currency        string
	ValidUntil      string
	DeliveryAddress string
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>{{.Title}}</h2>
	<p>Hi {{.CustomerName}}, thanks for your payment.</p>
	<table style="border-collapse: collapse;">
		{{range .Lines}}
		<tr><td style="padding: 4px 12px 4px 0;">{{.Name}} x{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
		{{end}}
		<tr><td style="padding: 4px 12px 4px 0;"><b>Total</b></td><td><b>{{.Currency}} {{printf "%.2f" .Total}}</b></td></tr>
	</table>
	<p>Payment reference: {{.PaymentId}}</p>
	{{if .ValidUntil}}<p>Your subscription is valid until {{.ValidUntil}}.</p>{{end}}
	{{if .DeliveryAddress}}<p>Meals will be delivered to: {{.DeliveryAddress}}</p>{{end}}
</div>
`))

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
	}
}

func RenderReceipt(receipt Receipt) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, receipt); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *emailService) SendReceipt(toEmail string, receipt Receipt) error {
	body, err := RenderReceipt(receipt)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", receipt.Title)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}
