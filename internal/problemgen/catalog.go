package problemgen

import "slices"

// Difficulty is one of the three difficulty levels a problem is generated at.
type Difficulty string

const (
	DifficultyBasic    Difficulty = "Basic"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyComplex  Difficulty = "Complex"
)

// GradeLevels lists the selectable grade levels in display order.
var GradeLevels = []string{
	"Kindergarten",
	"1st Grade",
	"2nd Grade",
	"3rd Grade",
	"4th Grade",
	"5th Grade",
	"6th Grade",
	"7th Grade",
	"8th Grade",
	"9th Grade",
	"10th Grade",
	"11th Grade",
	"12th Grade",
}

// Topics lists the selectable math topics in display order.
var Topics = []string{
	"Addition",
	"Subtraction",
	"Multiplication",
	"Division",
	"Fractions",
	"Decimals",
	"Percentages",
	"Algebra",
	"Geometry",
	"Probability",
	"Statistics",
}

// Difficulties lists the difficulty levels from easiest to hardest.
var Difficulties = []Difficulty{DifficultyBasic, DifficultyModerate, DifficultyComplex}

// IsGradeLevel reports whether s is a known grade level.
func IsGradeLevel(s string) bool { return slices.Contains(GradeLevels, s) }

// IsTopic reports whether s is a known topic.
func IsTopic(s string) bool { return slices.Contains(Topics, s) }

// IsDifficulty reports whether s is a known difficulty.
func IsDifficulty(s string) bool { return slices.Contains(Difficulties, Difficulty(s)) }

// Next returns the next harder difficulty, or d itself at the top.
func (d Difficulty) Next() Difficulty {
	i := slices.Index(Difficulties, d)
	if i < 0 || i == len(Difficulties)-1 {
		return d
	}
	return Difficulties[i+1]
}

// Catalog is the full set of selectable values, as served to clients.
type Catalog struct {
	GradeLevels  []string `json:"gradeLevels"`
	Topics       []string `json:"topics"`
	Difficulties []string `json:"difficulties"`
}

// DefaultCatalog returns a copy of the built-in enumerations.
func DefaultCatalog() Catalog {
	ds := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		ds[i] = string(d)
	}
	return Catalog{
		GradeLevels:  slices.Clone(GradeLevels),
		Topics:       slices.Clone(Topics),
		Difficulties: ds,
	}
}
