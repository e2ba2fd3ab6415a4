package encoding_test

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

// scenario is the reference submission for the 19-feature schema.
func scenario() encoding.Inputs {
	return encoding.Inputs{
		"Hours_Studied":              20,
		"Attendance":                 80,
		"Parental_Involvement":       "Medium",
		"Access_to_Resources":        "Good",
		"Extracurricular_Activities": "Active",
		"Sleep_Hours":                7,
		"Previous_Scores":            75,
		"Motivation_Level":           "High",
		"Internet_Access":            "Yes",
		"Tutoring_Sessions":          2,
		"Family_Income":              "Medium",
		"Teacher_Quality":            "Excellent",
		"School_Type":                "Private",
		"Peer_Influence":             "Positive",
		"Physical_Activity":          3,
		"Learning_Disabilities":      "No",
		"Parental_Education_Level":   "Graduate",
		"Distance_from_Home":         "1-5 km",
		"Gender":                     "Female",
	}
}

func TestEncode_Scenario(t *testing.T) {
	Convey("Given the 19-feature schema and the reference submission", t, func() {
		s := schema.StudentScoreV3()

		Convey("When encoding", func() {
			vec, err := encoding.Encode(scenario(), s, s.CategoryMap())

			Convey("Then it should produce the trained vector in schema order", func() {
				So(err, ShouldBeNil)
				So(vec.Values, ShouldResemble, []float64{20, 80, 1, 2, 2, 7, 75, 2, 1, 2, 1, 2, 1, 2, 3, 0, 2, 1, 1})
				So(vec.Columns, ShouldResemble, s.Names())
			})
		})

		Convey("When encoding the same submission posted as form strings", func() {
			raw := scenario()
			for k, v := range raw {
				if n, ok := v.(int); ok {
					raw[k] = strconv.Itoa(n)
				}
			}
			raw["Attendance"] = json.Number("80")
			vec, err := encoding.New(s, s.CategoryMap()).Encode(raw)

			Convey("Then the vector should be identical", func() {
				So(err, ShouldBeNil)
				So(vec.Values, ShouldResemble, []float64{20, 80, 1, 2, 2, 7, 75, 2, 1, 2, 1, 2, 1, 2, 3, 0, 2, 1, 1})
			})
		})
	})
}

func TestEncode_EveryLabel(t *testing.T) {
	Convey("Given every label of every categorical slot", t, func() {
		s := schema.StudentScoreV3()
		maps := s.CategoryMap()
		enc := encoding.New(s, maps)

		for _, slot := range s.Slots {
			if slot.Kind != schema.KindCategorical {
				continue
			}
			for _, c := range slot.Categories {
				Convey("When encoding "+slot.Name+"="+c.Label, func() {
					raw := scenario()
					raw[slot.Name] = c.Label
					vec, err := enc.Encode(raw)

					Convey("Then the slot should carry the mapped integer", func() {
						So(err, ShouldBeNil)
						got, ok := vec.Get(slot.Name)
						So(ok, ShouldBeTrue)
						So(got, ShouldEqual, float64(maps[slot.Name][c.Label]))
						So(got, ShouldEqual, float64(c.Code))
					})
				})
			}
		}
	})
}

func TestEncode_Boundaries(t *testing.T) {
	Convey("Given every min/max combination of the numeric slots", t, func() {
		s := schema.StudentScoreV3()
		enc := encoding.New(s, s.CategoryMap())

		var numeric []schema.Slot
		for _, slot := range s.Slots {
			if slot.Kind == schema.KindNumeric {
				numeric = append(numeric, slot)
			}
		}
		So(numeric, ShouldHaveLength, 6)

		Convey("Then every vector should match schema length and order", func() {
			for mask := 0; mask < 1<<len(numeric); mask++ {
				raw := scenario()
				for i, slot := range numeric {
					if mask&(1<<i) != 0 {
						raw[slot.Name] = slot.Max
					} else {
						raw[slot.Name] = slot.Min
					}
				}
				So(encoding.CheckBounds(raw, s), ShouldBeNil)

				vec, err := enc.Encode(raw)
				So(err, ShouldBeNil)
				So(vec.Len(), ShouldEqual, s.Len())
				So(vec.Columns, ShouldResemble, s.Names())
				for i, slot := range numeric {
					got, _ := vec.Get(slot.Name)
					if mask&(1<<i) != 0 {
						So(got, ShouldEqual, slot.Max)
					} else {
						So(got, ShouldEqual, slot.Min)
					}
				}
			}
		})
	})
}

func TestEncode_Errors(t *testing.T) {
	Convey("Given the 19-feature encoder", t, func() {
		s := schema.StudentScoreV3()
		enc := encoding.New(s, s.CategoryMap())

		Convey("When a label is not in the slot's map", func() {
			raw := scenario()
			raw["Gender"] = "Unknown"
			vec, err := enc.Encode(raw)

			Convey("Then it should fail with UnknownCategory and no partial vector", func() {
				So(errors.Is(err, encoding.ErrUnknownCategory), ShouldBeTrue)
				var ce *encoding.CategoryError
				So(errors.As(err, &ce), ShouldBeTrue)
				So(ce.Slot, ShouldEqual, "Gender")
				So(ce.Label, ShouldEqual, "Unknown")
				So(vec.Values, ShouldBeNil)
				So(vec.Columns, ShouldBeNil)
			})
		})

		Convey("When labels differ only by case", func() {
			raw := scenario()
			raw["School_Type"] = "private"
			_, err := enc.Encode(raw)

			Convey("Then they should not match", func() {
				So(errors.Is(err, encoding.ErrUnknownCategory), ShouldBeTrue)
			})
		})

		Convey("When a slot is omitted", func() {
			raw := scenario()
			delete(raw, "Sleep_Hours")
			vec, err := enc.Encode(raw)

			Convey("Then it should fail with SchemaMismatch", func() {
				So(errors.Is(err, encoding.ErrSchemaMismatch), ShouldBeTrue)
				var se *encoding.SlotError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Slot, ShouldEqual, "Sleep_Hours")
				So(vec.Len(), ShouldEqual, 0)
			})
		})

		Convey("When an input names a slot from another schema", func() {
			raw := scenario()
			raw["Exam_Anxiety"] = 3
			_, err := enc.Encode(raw)

			Convey("Then it should fail with SchemaMismatch", func() {
				So(errors.Is(err, encoding.ErrSchemaMismatch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Exam_Anxiety")
			})
		})

		Convey("When the category map lacks a categorical slot", func() {
			maps := s.CategoryMap()
			delete(maps, "Gender")
			_, err := encoding.Encode(scenario(), s, maps)

			Convey("Then it should fail with SchemaMismatch", func() {
				So(errors.Is(err, encoding.ErrSchemaMismatch), ShouldBeTrue)
			})
		})

		Convey("When a numeric slot holds text", func() {
			raw := scenario()
			raw["Attendance"] = "eighty"
			_, err := enc.Encode(raw)

			Convey("Then it should fail with InvalidValue", func() {
				So(errors.Is(err, encoding.ErrInvalidValue), ShouldBeTrue)
			})
		})

		Convey("When a numeric slot holds NaN", func() {
			raw := scenario()
			raw["Attendance"] = math.NaN()
			_, err := enc.Encode(raw)

			Convey("Then it should fail with InvalidValue", func() {
				So(errors.Is(err, encoding.ErrInvalidValue), ShouldBeTrue)
			})
		})

		Convey("When a categorical slot holds a number", func() {
			raw := scenario()
			raw["Gender"] = 1
			_, err := enc.Encode(raw)

			Convey("Then it should fail with InvalidValue", func() {
				So(errors.Is(err, encoding.ErrInvalidValue), ShouldBeTrue)
			})
		})

		Convey("When a numeric slot is outside its slider domain", func() {
			raw := scenario()
			raw["Sleep_Hours"] = 14

			Convey("Then Encode should pass it through unchanged", func() {
				vec, err := enc.Encode(raw)
				So(err, ShouldBeNil)
				got, _ := vec.Get("Sleep_Hours")
				So(got, ShouldEqual, 14)
			})

			Convey("And CheckBounds should reject it", func() {
				err := encoding.CheckBounds(raw, s)
				So(errors.Is(err, encoding.ErrOutOfRange), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Sleep_Hours")
			})
		})

		Convey("When a numeric slot is not finite", func() {
			raw := scenario()
			raw["Sleep_Hours"] = math.Inf(1)

			Convey("Then CheckBounds should leave it to Encode", func() {
				So(encoding.CheckBounds(raw, s), ShouldBeNil)
				_, err := enc.Encode(raw)
				So(errors.Is(err, encoding.ErrInvalidValue), ShouldBeTrue)
			})
		})
	})
}
