package receipt

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleData() Data {
	return Data{
		BusinessLines: []string{"RedFox Store", "Main Street 1"},
		TicketCode:    "T-001",
		Date:          "2026-08-31 12:00",
		Cashier:       "ana",
		Client:        "C-9",
		Items: []Item{
			{Name: "Coffee", Quantity: dec("2"), Price: dec("10"), Total: dec("20")},
		},
		Totals:      []TotalLine{{Label: "TOTAL", Value: dec("20")}},
		FooterLines: []string{"Thank you!"},
	}
}

func TestRenderGolden(t *testing.T) {
	f := NewFormatter("")

	want := strings.Join([]string{
		"          RedFox Store",
		"         Main Street 1",
		"",
		"Ticket: T-001",
		"Date: 2026-08-31 12:00",
		"Cashier: ana",
		"Client: C-9",
		"",
		"Coffee",
		"               2 x 10.00 = 20.00",
		"",
		"          TOTAL            20.00",
		"",
		"           Thank you!",
		"",
	}, "\n")

	assert.Equal(t, want, f.Render(sampleData()))
}

func TestLongProductNameTruncatedWithEllipsis(t *testing.T) {
	f := NewFormatter("")
	d := sampleData()
	name := strings.Repeat("A", 40)
	d.Items[0].Name = name

	out := f.Render(d)
	// 17-char budget: first 14 characters plus "..."
	assert.Contains(t, out, strings.Repeat("A", 14)+"...\n")
	assert.NotContains(t, out, strings.Repeat("A", 15))
}

func TestMultibyteNamesCountCharactersNotBytes(t *testing.T) {
	f := NewFormatter("")
	d := sampleData()
	d.BusinessLines = []string{"Café Olé"} // 8 chars -> 12 left spaces
	d.Items[0].Name = strings.Repeat("é", 40)

	out := f.Render(d)
	require.True(t, utf8.ValidString(out))

	lines := strings.Split(out, "\n")
	assert.Equal(t, strings.Repeat(" ", 12)+"Café Olé", lines[0])
	assert.Contains(t, out, strings.Repeat("é", 14)+"...\n")
	assert.NotContains(t, out, strings.Repeat("é", 15))
}

func TestCenteringPadsLeftOnly(t *testing.T) {
	f := NewFormatter("")
	d := sampleData()
	d.BusinessLines = []string{"RedFox POS"} // 10 chars -> 11 left spaces

	out := f.Render(d)
	lines := strings.Split(out, "\n")
	assert.Equal(t, strings.Repeat(" ", 11)+"RedFox POS", lines[0])

	for _, line := range lines {
		assert.Equal(t, strings.TrimRight(line, " "), line, "no trailing spaces ever")
	}
}

func TestTotalsColumns(t *testing.T) {
	f := NewFormatter("")
	d := sampleData()
	d.Totals = []TotalLine{
		{Label: "TOTAL", Value: dec("145")},
		{Label: "PAID", Value: dec("150")},
		{Label: "CHANGE", Value: dec("5")},
	}

	out := f.Render(d)
	assert.Contains(t, out, "          TOTAL           145.00")
	assert.Contains(t, out, "           PAID           150.00")
	assert.Contains(t, out, "         CHANGE             5.00")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "145.00") {
			assert.Len(t, line, Width)
		}
	}
}

func TestItemAmountLineRightAligned(t *testing.T) {
	f := NewFormatter("")
	out := f.Render(sampleData())

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "2 x 10.00 = 20.00") {
			assert.Len(t, line, Width)
			assert.True(t, strings.HasPrefix(line, " "))
			return
		}
	}
	t.Fatal("amount line not found")
}

func TestRenderHTMLWrapsPreAndLogo(t *testing.T) {
	withLogo := NewFormatter("https://cdn.example.com/logo.png")
	out := withLogo.RenderHTML(sampleData())
	assert.Contains(t, out, "<pre>")
	assert.Contains(t, out, "https://cdn.example.com/logo.png")
	assert.Contains(t, out, "float:right")

	noLogo := NewFormatter("")
	assert.NotContains(t, noLogo.RenderHTML(sampleData()), "<img")
}

func TestPrintReturnsBothSurfaces(t *testing.T) {
	f := NewFormatter("")
	out, err := f.Print(context.Background(), sampleData())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Text)
	assert.Contains(t, out.HTML, "<pre>")
}
