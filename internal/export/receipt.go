package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"math"
	"strings"

	"lapakpos/backend/internal/domain"
)

// Receipt bundles the printable forms of one bill.
type Receipt struct {
	BillID       string `json:"bill_id"`
	HTML         string `json:"html"`
	EscposBase64 string `json:"escpos_base64"`
	PreviewText  string `json:"preview_text"`
	FileName     string `json:"file_name"`
}

// receiptHTMLTmpl renders a fixed-width layout for 58mm thermal paper.
// User-controlled fields are auto-escaped by html/template.
var receiptHTMLTmpl = template.Must(template.New("receipt").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Receipt {{.BillNumber}}</title>
  <style>
    body { font-family: monospace; width: 58mm; margin: 0; padding: 4px; font-size: 11px; }
    .center { text-align: center; }
    .line { border-top: 1px dashed #000; margin: 4px 0; }
    table { width: 100%; border-collapse: collapse; }
    td { padding: 1px 0; }
    td.amount { text-align: right; }
  </style>
</head>
<body>
  <p class="center"><strong>{{.ShopName}}</strong></p>
  <p class="center">{{.BillNumber}}<br/>{{.CreatedAt}}</p>
  <div class="line"></div>
  <table>
    {{range .Items}}<tr><td>{{.Name}} x{{.Quantity}}</td><td class="amount">{{.TotalCents}}</td></tr>
    {{end}}
  </table>
  <div class="line"></div>
  <table>
    <tr><td>Subtotal</td><td class="amount">{{.SubtotalCents}}</td></tr>
    <tr><td>Discount</td><td class="amount">{{.DiscountCents}}</td></tr>
    <tr><td><strong>Total</strong></td><td class="amount"><strong>{{.TotalCents}}</strong></td></tr>
    <tr><td>Paid ({{.PaymentMethod}})</td><td class="amount">{{.AmountPaidCents}}</td></tr>
    <tr><td>Change</td><td class="amount">{{.ChangeCents}}</td></tr>
  </table>
  <div class="line"></div>
  <p class="center">Cashier: {{.CashierName}}</p>
  <p class="center">Terima kasih</p>
</body>
</html>
`))

type receiptItemView struct {
	Name       string
	Quantity   string
	TotalCents int64
}

type receiptView struct {
	ShopName        string
	BillNumber      string
	CreatedAt       string
	Items           []receiptItemView
	SubtotalCents   int64
	DiscountCents   int64
	TotalCents      int64
	PaymentMethod   string
	AmountPaidCents int64
	ChangeCents     int64
	CashierName     string
}

// BuildReceipt renders a bill as printable HTML plus a raw ESC/POS byte
// stream (base64) for direct thermal printing via a local bridge.
func BuildReceipt(bill domain.Bill, shopName string) Receipt {
	if shopName == "" {
		shopName = "LapakPOS"
	}

	view := receiptView{
		ShopName:        shopName,
		BillNumber:      bill.BillNumber,
		CreatedAt:       bill.CreatedAt.Format("2006-01-02 15:04:05"),
		SubtotalCents:   bill.SubtotalCents,
		DiscountCents:   bill.DiscountCents,
		TotalCents:      bill.TotalCents,
		PaymentMethod:   bill.Payment.Method,
		AmountPaidCents: bill.Payment.AmountPaidCents,
		ChangeCents:     bill.Payment.ChangeCents,
		CashierName:     bill.Cashier.Name,
	}
	for _, item := range bill.Items {
		view.Items = append(view.Items, receiptItemView{
			Name:       item.Name,
			Quantity:   fmt.Sprintf("%g", item.Quantity),
			TotalCents: lineCents(item),
		})
	}

	var buf bytes.Buffer
	html := "<!doctype html><html><body><p>Receipt rendering error.</p></body></html>"
	if err := receiptHTMLTmpl.Execute(&buf, view); err == nil {
		html = buf.String()
	}

	lines := []string{
		shopName,
		"========================",
		"Bill: " + bill.BillNumber,
		"Date: " + view.CreatedAt,
		"------------------------",
	}
	for _, item := range bill.Items {
		lines = append(lines, fmt.Sprintf("%s x%g", item.Name, item.Quantity))
		lines = append(lines, fmt.Sprintf("  %d", lineCents(item)))
	}
	lines = append(lines,
		"------------------------",
		fmt.Sprintf("Subtotal : %d", bill.SubtotalCents),
		fmt.Sprintf("Diskon   : %d", bill.DiscountCents),
		fmt.Sprintf("Total    : %d", bill.TotalCents),
		fmt.Sprintf("Bayar    : %d", bill.Payment.AmountPaidCents),
		fmt.Sprintf("Kembali  : %d", bill.Payment.ChangeCents),
		"========================",
		"Terima kasih",
		"",
	)

	// ESC @ initializes the printer; GS V A 16 feeds and cuts.
	escpos := []byte{0x1b, 0x40}
	for _, line := range lines {
		escpos = append(escpos, []byte(line)...)
		escpos = append(escpos, '\n')
	}
	escpos = append(escpos, []byte{0x1d, 0x56, 0x41, 0x10}...)

	return Receipt{
		BillID:       bill.ID,
		HTML:         html,
		EscposBase64: base64.StdEncoding.EncodeToString(escpos),
		PreviewText:  strings.Join(lines, "\n"),
		FileName:     fmt.Sprintf("receipt-%s.bin", bill.BillNumber),
	}
}

func lineCents(item domain.CartLine) int64 {
	return int64(math.Round(float64(item.PriceCents) * item.Quantity))
}
