package encoding

import (
	"math"

	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
)

// CheckBounds enforces slider domains the way the collecting widget would.
// Encode does not re-validate ranges, so surfaces without a widget (the JSON
// API, tampered form posts) call this first. Values that are not finite
// numbers are left for Encode to report.
func CheckBounds(raw Inputs, s *schema.Schema) error {
	for _, slot := range s.Slots {
		if slot.Kind != schema.KindNumeric {
			continue
		}
		v, ok := raw[slot.Name]
		if !ok {
			continue
		}
		x, ok := toFloat(v)
		if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if !slot.Contains(x) {
			return slotErr(ErrOutOfRange, slot.Name, "%v outside [%v, %v]", x, slot.Min, slot.Max)
		}
	}
	return nil
}
