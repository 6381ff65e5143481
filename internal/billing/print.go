package billing

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Print/export payload for a bill: flattened line items plus ready-made
// 32-column text lines for the thermal printer collaborator. Actual
// formatting/driving of the printer happens client-side.

const printWidth = 32

type PrintLineItem struct {
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"` // delivered minus returned
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type ThermalLine struct {
	Type  string `json:"type"` // only "text" for now
	Value string `json:"value"`
}

type PrintData struct {
	BillID             uint            `json:"bill_id"`
	Date               string          `json:"date"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone"`
	Items              []PrintLineItem `json:"items"`
	TotalAmount        float64         `json:"total_amount"`
	PaidAmount         float64         `json:"paid_amount"`
	OutstandingBalance float64         `json:"outstanding_balance"`
	ThermalData        []ThermalLine   `json:"thermal_data"`
}

// BuildPrintData flattens a bill's deliveries into printable line items.
func BuildPrintData(db *gorm.DB, billID uint) (*PrintData, error) {
	bill, err := Get(db, billID)
	if err != nil {
		return nil, err
	}

	data := &PrintData{
		BillID:             bill.ID,
		Date:               bill.Date.Format("2006-01-02"),
		CustomerName:       bill.Customer.Name,
		CustomerPhone:      bill.Customer.Phone,
		TotalAmount:        bill.TotalAmount,
		PaidAmount:         bill.PaidAmount,
		OutstandingBalance: bill.OutstandingBalance(),
	}

	for _, d := range bill.Deliveries {
		data.Items = append(data.Items, PrintLineItem{
			ItemName:  d.Item.Name,
			Quantity:  d.QuantityDelivered - d.QuantityReturned,
			UnitPrice: d.UnitPrice,
			LineTotal: d.TotalAmount,
		})
	}

	data.ThermalData = thermalLines(data)
	return data, nil
}

func thermalLines(data *PrintData) []ThermalLine {
	divider := strings.Repeat("-", printWidth)

	text := func(v string) ThermalLine { return ThermalLine{Type: "text", Value: v} }

	lines := []ThermalLine{
		text(center("BAKERY DISTRIBUTION")),
		text(divider),
		text(fmt.Sprintf("Bill No : %d", data.BillID)),
		text(fmt.Sprintf("Date    : %s", data.Date)),
		text(fmt.Sprintf("Customer: %s", data.CustomerName)),
		text(divider),
	}

	for _, it := range data.Items {
		lines = append(lines, text(fmt.Sprintf("%-14.14s %3d x%8.2f", it.ItemName, it.Quantity, it.UnitPrice)))
		lines = append(lines, text(fmt.Sprintf("%*s", printWidth, fmt.Sprintf("%.2f", it.LineTotal))))
	}

	lines = append(lines,
		text(divider),
		text(fmt.Sprintf("Total   %*s", printWidth-8, fmt.Sprintf("%.2f", data.TotalAmount))),
		text(fmt.Sprintf("Paid    %*s", printWidth-8, fmt.Sprintf("%.2f", data.PaidAmount))),
		text(fmt.Sprintf("Balance %*s", printWidth-8, fmt.Sprintf("%.2f", data.OutstandingBalance))),
		text(divider),
		text(center("Thank you!")),
	)
	return lines
}

func center(s string) string {
	if len(s) >= printWidth {
		return s
	}
	pad := (printWidth - len(s)) / 2
	return fmt.Sprintf("%*s%s", pad, "", s)
}
