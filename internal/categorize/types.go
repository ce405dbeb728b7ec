// Package categorize routes matched questions into the five action buckets.
package categorize

import "github.com/abhisek/banksort/internal/matching"

// Bucket is one of the five mutually exclusive partitions.
type Bucket string

const (
	EasyOpen         Bucket = "easy-open"
	EasyClosed       Bucket = "easy-closed"
	MediumHardOpen   Bucket = "medium-hard-open"
	MediumHardClosed Bucket = "medium-hard-closed"
	Revision         Bucket = "revision"
)

// Order is the display and output order of the buckets.
var Order = []Bucket{EasyOpen, EasyClosed, MediumHardOpen, MediumHardClosed, Revision}

var titles = map[Bucket]string{
	EasyOpen:         "1.1 Легкие/Открытые",
	EasyClosed:       "1.2 Легкие/Закрытые",
	MediumHardOpen:   "2.1 Средние+Сложные/Открытые",
	MediumHardClosed: "2.2 Средние+Сложные/Закрытые",
	Revision:         "3 На переделку",
}

// Title is the category name written to generated banks.
func (b Bucket) Title() string { return titles[b] }

// Reason explains why a question needs revision.
type Reason string

const (
	ReasonLowDiscrimination Reason = "low-discrimination"
	ReasonEasiest           Reason = "easiest"
	ReasonLowAttempts       Reason = "low-attempts"
)

// Config holds the categorization thresholds.
type Config struct {
	// EasyThreshold is the difficulty percentage at or above which a
	// question counts as easy.
	EasyThreshold float64
	// DiscriminationFloor is on the fraction scale.
	DiscriminationFloor float64
	// EasiestShare is the fraction of the batch flagged as too easy.
	EasiestShare float64
	// MinAttemptsFloor is the lowest attempts floor, however low the
	// batch's lower quartile is.
	MinAttemptsFloor float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		EasyThreshold:       70,
		DiscriminationFloor: 0.3,
		EasiestShare:        0.1,
		MinAttemptsFloor:    30,
	}
}

// Item is a categorized question.
type Item struct {
	matching.Matched
	Bucket  Bucket   `json:"bucket"`
	Reasons []Reason `json:"reasons,omitempty"`
}

// Result is the categorization of a batch.
type Result struct {
	Items   []Item            `json:"items"`
	Buckets map[Bucket][]Item `json:"buckets"`
	// Easiest names the bank questions in the easiest share, easiest first.
	Easiest []string `json:"easiest"`
	// LowAttempts names the matched questions below the attempts floor.
	LowAttempts   []string `json:"low_attempts"`
	AttemptsFloor float64  `json:"attempts_floor"`
}

// Count returns the number of questions in b.
func (r Result) Count(b Bucket) int { return len(r.Buckets[b]) }
