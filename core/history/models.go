package history

import (
	"time"

	"github.com/trezcool/gradecalc/core/grade"
)

const (
	DefaultTitle = "Untitled"

	// TimestampLayout renders creation/update times the way they are displayed, eg. "3/14/2025, 4:05:09 PM".
	TimestampLayout = "1/2/2006, 3:04:05 PM"
)

// NowFunc is mockable.
var NowFunc = time.Now

// Record is a saved final grade calculation.
type Record struct {
	ID         int64  `json:"id"`
	Prelims    string `json:"prelims"`
	Midterm    string `json:"midterm"`
	Prefinals  string `json:"prefinals"`
	Finals     string `json:"finals"`
	FinalGrade string `json:"finalGrade"` // always 2 decimal places
	Timestamp  string `json:"timestamp"`
	Title      string `json:"title"`
}

func (r Record) Grades() grade.PeriodGrades {
	return grade.PeriodGrades{
		Prelims:   r.Prelims,
		Midterm:   r.Midterm,
		Prefinals: r.Prefinals,
		Finals:    r.Finals,
	}
}

// Percentage is the numeric final grade; unparsable values read as 0.
func (r Record) Percentage() float64 {
	fg, err := grade.ParseFinalGrade(r.FinalGrade)
	if err != nil {
		return 0
	}
	return fg.Float64()
}

// Classification of the record's final grade.
func (r Record) Classification() grade.Classification {
	return grade.Classify(r.Percentage())
}

// SaveRecord contains what the calculator submits when saving to history.
// A zero ID creates a new Record; otherwise the Record with that ID is updated.
type SaveRecord struct {
	ID     int64
	Grades grade.PeriodGrades
	Title  string
}
