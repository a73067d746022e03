// Package model defines shared data structures.
package model

// Config defines practice settings.
type Config struct {
	ProjectPath     string
	FileExtension   string
	Words           int
	Strict          bool
	SkipWordOnSpace bool
	// MinAccuracy hides detailed results below this percentage. Nil disables it.
	MinAccuracy *float64

	LogLevel    string
	LogFile     string
	MetricsFile string
}
