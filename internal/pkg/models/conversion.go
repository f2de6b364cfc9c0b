package models

import "time"

// ConversionTask is a queued conversion request. Consumed exactly once by
// a worker, never mutated after enqueue.
type ConversionTask struct {
	TaskID               string    `json:"task_id"`
	BetslipCode          string    `json:"betslip_code"`
	SourceBookmaker      string    `json:"source_bookmaker"`
	DestinationBookmaker string    `json:"destination_bookmaker"`
	// Priority is carried through for API compatibility; the queue is
	// strict FIFO and ignores it.
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Selection conversion statuses as reported to callers.
const (
	StatusConverted = "converted"
	StatusSkipped   = "skipped"
)

// ConvertedSelection is the per-selection outcome inside a ConversionResult.
type ConvertedSelection struct {
	Game         string  `json:"game"`
	Market       string  `json:"market"`
	Odds         float64 `json:"odds"`
	OriginalOdds float64 `json:"original_odds"`
	Confidence   float64 `json:"confidence"`
	Status       string  `json:"status"`
	Reason       string  `json:"reason,omitempty"`
}

// ConversionResult is the terminal outcome of a conversion task. Written
// once by the worker that completed the task.
type ConversionResult struct {
	TaskID         string               `json:"task_id"`
	Success        bool                 `json:"success"`
	NewBetslipCode string               `json:"new_betslip_code,omitempty"`
	Selections     []ConvertedSelection `json:"converted_selections"`
	Warnings       []string             `json:"warnings"`
	ProcessingMS   float64              `json:"processing_time_ms"`
	Partial        bool                 `json:"partial_conversion"`
	Error          string               `json:"error,omitempty"`
}

// ConvertedCount returns the number of selections that made it onto the
// destination slip.
func (r ConversionResult) ConvertedCount() int {
	n := 0
	for _, s := range r.Selections {
		if s.Status == StatusConverted {
			n++
		}
	}
	return n
}
