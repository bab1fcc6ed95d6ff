package harness

import "fmt"

// ReportLine records the outcome of one assertion.
type ReportLine struct {
	Index   int    `json:"index"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Want    string `json:"want"`
	Got     string `json:"got"`
	Pass    bool   `json:"pass"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Report has one line per assertion, in scenario order.
	Report []ReportLine `json:"report"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Report: []ReportLine{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Record appends a report line, adding an error when it failed.
func (r *Result) Record(line ReportLine) {
	line.Index = len(r.Report)
	r.Report = append(r.Report, line)
	if !line.Pass {
		r.AddError(fmt.Sprintf("assertions[%d] %s %s: want %s, got %s",
			line.Index, line.Type, line.Subject, line.Want, line.Got))
	}
}
