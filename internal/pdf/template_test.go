package pdf

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder(number string) WorkOrderData {
	return WorkOrderData{
		Company: CompanyInfo{
			Name:  "Acme Service",
			Phone: "555-0100",
		},
		OrderNumber: number,
		Status:      "in_progress",
		RequestDate: "2026-03-01 09:00",
		Description: "replace fuser unit",
		Client: ClientInfo{
			Name:  "Jordan",
			Email: "jordan@test",
		},
		Equipment: EquipmentInfo{
			Type:  "printer",
			Brand: "HP",
		},
	}
}

func TestBuildHTMLRendersOrder(t *testing.T) {
	out, err := BuildHTML(sampleOrder("ORD-2026-12"))
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "ORD-2026-12")
	assert.Contains(t, html, "Acme Service")
	assert.Contains(t, html, "replace fuser unit")
}

func TestBuildHTMLEscapesUserText(t *testing.T) {
	order := sampleOrder("ORD-2026-13")
	order.Description = `<script>alert("x")</script>`

	out, err := BuildHTML(order)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>alert")
}

func TestBuildHTMLKeepsDataURLs(t *testing.T) {
	order := sampleOrder("ORD-2026-14")
	order.Photos = []template.URL{"data:image/png;base64,abc123"}
	order.Signature = "data:image/png;base64,sig456"

	out, err := BuildHTML(order)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "data:image/png;base64,abc123")
	assert.Contains(t, html, "data:image/png;base64,sig456")
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestBuildMultiHTMLPageBreaks(t *testing.T) {
	out, err := BuildMultiHTML([]WorkOrderData{
		sampleOrder("ORD-2026-1"),
		sampleOrder("ORD-2026-2"),
	})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "ORD-2026-1")
	assert.Contains(t, html, "ORD-2026-2")
	assert.Contains(t, html, "page-break-after")
	assert.Equal(t, 2, strings.Count(html, `class="order"`))
}
