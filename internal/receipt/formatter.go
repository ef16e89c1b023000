package receipt

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Width is the physical line width of the ticket printer, in characters.
const Width = 32

// nameBudget is the room left for a product name on an item line.
const nameBudget = Width - 15

// Item is one printed product line.
type Item struct {
	Name     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// TotalLine is one entry of the totals block (TOTAL, PAID, CHANGE...).
type TotalLine struct {
	Label string
	Value decimal.Decimal
}

// Data is everything a ticket prints. The formatter is stateless; callers
// assemble Data from the closed sale and the drawer transaction.
type Data struct {
	BusinessLines []string
	TicketCode    string
	Date          string
	Cashier       string
	Client        string
	Items         []Item
	Totals        []TotalLine
	FooterLines   []string
}

// Formatter renders 32-column ticket text for thermal printers. The layout
// is a hardware contract: any drift breaks the installed printer fleet.
type Formatter struct {
	logoURL string
}

func NewFormatter(logoURL string) *Formatter {
	return &Formatter{logoURL: logoURL}
}

// Render produces the plain-text ticket. Blocks in order: centered business
// header, metadata, items, totals, centered footer, separated by single
// blank lines.
func (f *Formatter) Render(d Data) string {
	var lines []string

	for _, l := range d.BusinessLines {
		lines = append(lines, center(l))
	}

	lines = append(lines, "")
	lines = append(lines,
		"Ticket: "+d.TicketCode,
		"Date: "+d.Date,
		"Cashier: "+d.Cashier,
		"Client: "+d.Client,
	)

	lines = append(lines, "")
	for _, item := range d.Items {
		lines = append(lines, truncateName(item.Name))
		amounts := fmt.Sprintf("%s x %s = %s",
			item.Quantity.String(),
			item.Price.StringFixed(2),
			item.Total.StringFixed(2))
		lines = append(lines, padLeft(amounts, Width))
	}

	lines = append(lines, "")
	for _, t := range d.Totals {
		label := padLeft(t.Label, 15)
		value := padLeft(t.Value.StringFixed(2), Width-15)
		lines = append(lines, label+value)
	}

	lines = append(lines, "")
	for _, l := range d.FooterLines {
		lines = append(lines, center(l))
	}

	return strings.Join(lines, "\n") + "\n"
}

// RenderHTML wraps the ticket text in a fixed-width <pre> block for the
// print surface, with an optional right-aligned logo.
func (f *Formatter) RenderHTML(d Data) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("<div style=\"width:%dch;font-family:monospace\">\n", Width))
	if f.logoURL != "" {
		b.WriteString(fmt.Sprintf("<img src=%q alt=\"logo\" style=\"float:right\"/>\n", f.logoURL))
	}
	b.WriteString("<pre>\n")
	b.WriteString(html.EscapeString(f.Render(d)))
	b.WriteString("</pre>\n</div>\n</body></html>\n")
	return b.String()
}

// center pads on the left only, by floor((Width-n)/2) where n counts
// printed characters, not bytes. Trailing spaces are never emitted; the
// printer ignores them anyway.
func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= Width {
		return s
	}
	return strings.Repeat(" ", (Width-n)/2) + s
}

// truncateName cuts a long product name to the item-line budget with a
// trailing ellipsis, never splitting a multibyte character.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= nameBudget {
		return name
	}
	return string(runes[:nameBudget-3]) + "..."
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
