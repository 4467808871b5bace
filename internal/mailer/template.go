package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// OrderEmailData fills the notification body for one service order.
type OrderEmailData struct {
	CompanyName string
	ClientName  string
	OrderNumber string
	Equipment   string
	Description string
	Status      string
	RequestDate string
}

const orderEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #222;">
  <h2 style="color: #2c3e50;">Service order {{.OrderNumber}}</h2>
  <p>Hello {{.ClientName}},</p>
  <p>{{if .CompanyName}}{{.CompanyName}} has{{else}}We have{{end}} registered your service order. You will be notified as it progresses.</p>
  <table cellpadding="4" style="font-size: 13px;">
    <tr><td style="color:#777;">Order</td><td><strong>{{.OrderNumber}}</strong></td></tr>
    <tr><td style="color:#777;">Equipment</td><td>{{.Equipment}}</td></tr>
    <tr><td style="color:#777;">Requested</td><td>{{.RequestDate}}</td></tr>
    <tr><td style="color:#777;">Status</td><td>{{.Status}}</td></tr>
    <tr><td style="color:#777;">Description</td><td>{{.Description}}</td></tr>
  </table>
  <p style="color:#777; font-size: 11px;">This is an automated message, please do not reply.</p>
</body>
</html>`

var orderEmailTpl = template.Must(template.New("order_email").Parse(orderEmailTemplate))

// OrderCreatedBody renders the HTML body of the order notification
// email. Fields are HTML-escaped.
func OrderCreatedBody(data OrderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := orderEmailTpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render order email: %w", err)
	}
	return buf.String(), nil
}

// OrderSubject is the subject line used for both the creation
// notification and explicit resends.
func OrderSubject(orderNumber string) string {
	return fmt.Sprintf("Service order %s", orderNumber)
}
