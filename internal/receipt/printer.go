package receipt

import "context"

// Output is a rendered ticket: raw text for the hardware printer and the
// HTML wrapper for the browser print surface.
type Output struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Print renders both surfaces. Rendering itself cannot fail; the error is
// part of the contract because dispatching to a real print surface can.
func (f *Formatter) Print(_ context.Context, d Data) (Output, error) {
	return Output{
		Text: f.Render(d),
		HTML: f.RenderHTML(d),
	}, nil
}
