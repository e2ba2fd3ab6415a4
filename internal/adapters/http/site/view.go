package site

import (
	"fmt"
	"strconv"

	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/prediction"
	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
)

// Chart geometry in SVG user units.
const (
	chartWidth   = 560
	chartHeight  = 260
	chartPadding = 32
	barGap       = 12
)

type page struct {
	Title  string
	Fields []fieldView
	Result *resultView
	Error  string
}

type fieldView struct {
	Name    string
	Label   string
	Slider  bool
	Min     float64
	Max     float64
	Step    float64
	Value   string
	Options []optionView
}

type optionView struct {
	Label    string
	Selected bool
}

type resultView struct {
	Formatted string
	Width     int
	Height    int
	Baseline  float64
	Bars      []barView
}

type barView struct {
	Label  string
	Value  string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// newPage builds the form view. Submitted values, when present, replace the
// schema defaults so the user sees what was sent.
func newPage(form schema.Form, raw encoding.Inputs) page {
	p := page{Title: form.Title, Fields: make([]fieldView, 0, len(form.Fields))}
	for _, f := range form.Fields {
		submitted, hasSubmitted := raw[f.Name].(string)
		fv := fieldView{Name: f.Name, Label: f.Label}
		switch f.Widget {
		case schema.WidgetSlider:
			fv.Slider = true
			fv.Min, fv.Max, fv.Step = f.Slider.Min, f.Slider.Max, f.Slider.Step
			fv.Value = strconv.FormatFloat(f.Slider.Default, 'f', -1, 64)
			if hasSubmitted {
				fv.Value = submitted
			}
		case schema.WidgetSelect:
			fv.Options = make([]optionView, len(f.Options))
			for i, o := range f.Options {
				selected := i == 0
				if hasSubmitted {
					selected = o == submitted
				}
				fv.Options[i] = optionView{Label: o, Selected: selected}
			}
		}
		p.Fields = append(p.Fields, fv)
	}
	return p
}

// newResultView lays out one bar per chart field, scaled to the largest slider
// maximum so bars are comparable across fields.
func newResultView(form schema.Form, res prediction.Result) *resultView {
	rv := &resultView{
		Formatted: res.Formatted(),
		Width:     chartWidth,
		Height:    chartHeight,
		Baseline:  chartHeight - chartPadding,
	}

	var charted []schema.Field
	scale := 0.0
	for _, f := range form.Fields {
		if f.Chart && f.Slider != nil {
			charted = append(charted, f)
			scale = max(scale, f.Slider.Max)
		}
	}
	if len(charted) == 0 || scale <= 0 {
		return rv
	}

	plotH := float64(chartHeight - 2*chartPadding)
	slot := float64(chartWidth-2*chartPadding) / float64(len(charted))
	for i, f := range charted {
		v, _ := res.Vector.Get(f.Name)
		h := max(v/scale*plotH, 0)
		rv.Bars = append(rv.Bars, barView{
			Label:  f.Label,
			Value:  fmt.Sprint(v),
			X:      chartPadding + float64(i)*slot + barGap/2,
			Y:      rv.Baseline - h,
			Width:  slot - barGap,
			Height: h,
		})
	}
	return rv
}
