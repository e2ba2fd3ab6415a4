package schema

// Built-in schema identity.
const (
	StudentScoreName    = "student_score"
	StudentScoreVersion = 3
	StudentScoreModel   = "student_score_model-3"
)

// StudentScoreV3 returns the 19-feature student exam score schema. Codes are
// ordinal in the order each picker offers its labels.
func StudentScoreV3() *Schema {
	return &Schema{
		Name:    StudentScoreName,
		Version: StudentScoreVersion,
		Model:   StudentScoreModel,
		Title:   "Student Exam Score Predictor",
		Slots: []Slot{
			slider("Hours_Studied", "Hours Studied per Week", 1, 50, 20, true),
			slider("Attendance", "Attendance (%)", 50, 100, 80, true),
			picker("Parental_Involvement", "Parental Involvement", "Low", "Medium", "High"),
			picker("Access_to_Resources", "Access to Resources", "Poor", "Average", "Good"),
			picker("Extracurricular_Activities", "Extracurricular Activities", "None", "Some", "Active"),
			slider("Sleep_Hours", "Sleep Hours per Day", 4, 10, 7, true),
			slider("Previous_Scores", "Previous Score (%)", 50, 100, 75, true),
			picker("Motivation_Level", "Motivation Level", "Low", "Medium", "High"),
			picker("Internet_Access", "Internet Access", "No", "Yes"),
			slider("Tutoring_Sessions", "Tutoring Sessions per Week", 0, 10, 2, true),
			picker("Family_Income", "Family Income", "Low", "Medium", "High"),
			picker("Teacher_Quality", "Teacher Quality", "Poor", "Average", "Excellent"),
			picker("School_Type", "School Type", "Public", "Private"),
			picker("Peer_Influence", "Peer Influence", "Negative", "Neutral", "Positive"),
			slider("Physical_Activity", "Physical Activity (hrs/week)", 0, 10, 3, true),
			picker("Learning_Disabilities", "Learning Disabilities", "No", "Yes"),
			picker("Parental_Education_Level", "Parental Education", "None", "High School", "Graduate", "Postgraduate"),
			picker("Distance_from_Home", "Distance from Home", "<1 km", "1-5 km", "5-10 km", ">10 km"),
			picker("Gender", "Gender", "Male", "Female", "Other"),
		},
	}
}

func slider(name, label string, minV, maxV, def float64, chart bool) Slot {
	return Slot{
		Name:    name,
		Label:   label,
		Kind:    KindNumeric,
		Min:     minV,
		Max:     maxV,
		Default: def,
		Step:    1,
		Chart:   chart,
	}
}

func picker(name, label string, labels ...string) Slot {
	cats := make([]Category, len(labels))
	for i, l := range labels {
		cats[i] = Category{Label: l, Code: i}
	}
	return Slot{Name: name, Label: label, Kind: KindCategorical, Categories: cats}
}
