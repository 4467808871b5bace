package pdf

import (
	"bytes"
	"fmt"
	"html/template"
)

// CompanyInfo is the letterhead block of the work order.
type CompanyInfo struct {
	Name     string
	Document string
	Address  string
	Phone    string
	Email    string
	// LogoURL may be an http(s) URL or empty.
	LogoURL template.URL
}

// ClientInfo identifies the order's client on the document.
type ClientInfo struct {
	Name     string
	Email    string
	Phone    string
	Document string
	Address  string
}

// EquipmentInfo describes the serviced device.
type EquipmentInfo struct {
	Type         string
	Brand        string
	Model        string
	SerialNumber string
}

// WorkOrderData is one fully-resolved order section. All text fields
// are HTML-escaped by the template; photo and signature sources are
// data/object URLs and carry the template.URL type so the scheme filter
// does not reject them.
type WorkOrderData struct {
	Company        CompanyInfo
	OrderNumber    string
	Status         string
	RequestDate    string
	ExpectedDate   string
	CompletionDate string
	Description    string
	Notes          string
	MaterialsUsed  string
	Cost           string
	Client         ClientInfo
	Equipment      EquipmentInfo
	TechnicianName string
	Photos         []template.URL
	Signature      template.URL
}

const workOrderTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; margin: 24px; }
  .order { page-break-after: always; }
  .order:last-child { page-break-after: auto; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #2c3e50; padding-bottom: 12px; margin-bottom: 16px; }
  .header img.logo { max-height: 64px; }
  .company { font-size: 11px; color: #555; }
  h1 { font-size: 18px; margin: 0 0 4px 0; color: #2c3e50; }
  h2 { font-size: 13px; margin: 16px 0 6px 0; color: #2c3e50; border-bottom: 1px solid #ddd; padding-bottom: 2px; }
  table.fields { width: 100%; border-collapse: collapse; }
  table.fields td { padding: 3px 8px 3px 0; vertical-align: top; }
  table.fields td.label { color: #777; white-space: nowrap; width: 130px; }
  .status { display: inline-block; padding: 2px 8px; border-radius: 3px; background: #eef2f7; font-weight: bold; }
  .photos img { max-width: 180px; max-height: 140px; margin: 4px; border: 1px solid #ccc; }
  .signature img { max-height: 80px; }
  .signature .line { border-top: 1px solid #999; width: 260px; margin-top: 48px; }
  .muted { color: #999; }
</style>
</head>
<body>
{{range .Orders}}
<div class="order">
  <div class="header">
    <div>
      <h1>Service Order {{.OrderNumber}}</h1>
      <span class="status">{{.Status}}</span>
    </div>
    <div class="company">
      {{if .Company.LogoURL}}<img class="logo" src="{{.Company.LogoURL}}" alt="logo">{{else}}<strong>{{.Company.Name}}</strong>{{end}}
      <div>{{.Company.Document}}</div>
      <div>{{.Company.Address}}</div>
      <div>{{.Company.Phone}} {{.Company.Email}}</div>
    </div>
  </div>

  <h2>Client</h2>
  <table class="fields">
    <tr><td class="label">Name</td><td>{{.Client.Name}}</td></tr>
    {{if .Client.Document}}<tr><td class="label">Document</td><td>{{.Client.Document}}</td></tr>{{end}}
    {{if .Client.Phone}}<tr><td class="label">Phone</td><td>{{.Client.Phone}}</td></tr>{{end}}
    {{if .Client.Email}}<tr><td class="label">Email</td><td>{{.Client.Email}}</td></tr>{{end}}
    {{if .Client.Address}}<tr><td class="label">Address</td><td>{{.Client.Address}}</td></tr>{{end}}
  </table>

  <h2>Equipment</h2>
  <table class="fields">
    <tr><td class="label">Type</td><td>{{.Equipment.Type}}</td></tr>
    <tr><td class="label">Brand / Model</td><td>{{.Equipment.Brand}} {{.Equipment.Model}}</td></tr>
    {{if .Equipment.SerialNumber}}<tr><td class="label">Serial Number</td><td>{{.Equipment.SerialNumber}}</td></tr>{{end}}
  </table>

  <h2>Service</h2>
  <table class="fields">
    <tr><td class="label">Requested</td><td>{{.RequestDate}}</td></tr>
    {{if .ExpectedDate}}<tr><td class="label">Expected</td><td>{{.ExpectedDate}}</td></tr>{{end}}
    {{if .CompletionDate}}<tr><td class="label">Completed</td><td>{{.CompletionDate}}</td></tr>{{end}}
    {{if .TechnicianName}}<tr><td class="label">Technician</td><td>{{.TechnicianName}}</td></tr>{{end}}
    <tr><td class="label">Description</td><td>{{.Description}}</td></tr>
    {{if .MaterialsUsed}}<tr><td class="label">Materials</td><td>{{.MaterialsUsed}}</td></tr>{{end}}
    {{if .Notes}}<tr><td class="label">Notes</td><td>{{.Notes}}</td></tr>{{end}}
    {{if .Cost}}<tr><td class="label">Cost</td><td>{{.Cost}}</td></tr>{{end}}
  </table>

  {{if .Photos}}
  <h2>Photos</h2>
  <div class="photos">
    {{range .Photos}}<img src="{{.}}" alt="photo">{{end}}
  </div>
  {{end}}

  <h2>Client Signature</h2>
  <div class="signature">
    {{if .Signature}}<img src="{{.Signature}}" alt="signature">{{else}}<div class="line"></div><div class="muted">Signature</div>{{end}}
  </div>
</div>
{{end}}
</body>
</html>`

var workOrderTpl = template.Must(template.New("work_order").Parse(workOrderTemplate))

// BuildHTML renders the printable document for a single order.
func BuildHTML(order WorkOrderData) ([]byte, error) {
	return BuildMultiHTML([]WorkOrderData{order})
}

// BuildMultiHTML renders one continuous document with a page break
// between each order's section.
func BuildMultiHTML(orders []WorkOrderData) ([]byte, error) {
	var buf bytes.Buffer
	err := workOrderTpl.Execute(&buf, map[string]interface{}{"Orders": orders})
	if err != nil {
		return nil, fmt.Errorf("render work order template: %w", err)
	}
	return buf.Bytes(), nil
}
