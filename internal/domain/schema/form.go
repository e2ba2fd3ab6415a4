package schema

// Widget names the input control used for a slot.
type Widget string

// Widget kinds offered by the input surface.
const (
	WidgetSlider Widget = "slider"
	WidgetSelect Widget = "select"
)

// Form is the input surface contract: exactly the slots and allowed values the
// matched CategoryMap expects, in schema order.
type Form struct {
	Schema  string  `json:"schema"`
	Version int     `json:"version"`
	Title   string  `json:"title"`
	Fields  []Field `json:"fields"`
}

// Field is one form option (label, widget kind, domain).
type Field struct {
	Name    string        `json:"name"`
	Label   string        `json:"label"`
	Widget  Widget        `json:"widget"`
	Slider  *SliderDomain `json:"slider,omitempty"`
	Options []string      `json:"options,omitempty"`
	Chart   bool          `json:"chart,omitempty"`
}

// SliderDomain bounds a numeric field.
type SliderDomain struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Form builds the input surface description from the schema.
func (s *Schema) Form() Form {
	f := Form{
		Schema:  s.Name,
		Version: s.Version,
		Title:   s.Title,
		Fields:  make([]Field, 0, len(s.Slots)),
	}
	for _, slot := range s.Slots {
		field := Field{Name: slot.Name, Label: slot.Label, Chart: slot.Chart}
		if field.Label == "" {
			field.Label = slot.Name
		}
		switch slot.Kind {
		case KindNumeric:
			field.Widget = WidgetSlider
			field.Slider = &SliderDomain{Min: slot.Min, Max: slot.Max, Default: slot.Default, Step: slot.Step}
		case KindCategorical:
			field.Widget = WidgetSelect
			field.Options = slot.Labels()
		}
		f.Fields = append(f.Fields, field)
	}
	return f
}
