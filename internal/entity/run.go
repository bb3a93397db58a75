package entity

import (
	"time"

	"github.com/google/uuid"

	"invoice-recon/constants"
)

// ExtractionFailure records a per-document extraction error. Failures are
// collected and surfaced in the final report; they never abort the run.
type ExtractionFailure struct {
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// RunStats aggregates counts for a completed run.
type RunStats struct {
	TotalFiles     int `json:"total_files"`
	Extracted      int `json:"extracted"`
	ExtractionErrs int `json:"extraction_errors"`
	Pairs          int `json:"pairs"`
	Unmatched      int `json:"unmatched"`
	Passed         int `json:"passed"`
	Failed         int `json:"failed"`
}

// RunReport is the run-scoped result object: created at run start, populated
// incrementally by the pipeline, handed to the report assembler at run end.
type RunReport struct {
	ID         uuid.UUID           `json:"id"`
	Status     constants.RunStatus `json:"status"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Results    []ComparisonResult  `json:"results"`
	Unmatched  []UnmatchedDocument `json:"unmatched"`
	Failures   []ExtractionFailure `json:"failures"`
	Stats      RunStats            `json:"stats"`
}
