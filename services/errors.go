// services/errors.go
package services

import "errors"

// Sentinel errors for the analysis pipeline. These indicate missing or
// invalid required input and propagate to the caller unrecovered; a single
// malformed response is absorbed locally and never surfaces as one of these.
var (
	// ErrInsufficientData is returned by discovery when the supplied query
	// results contain no generic-category entries. Retrying is meaningless
	// without more data.
	ErrInsufficientData = errors.New("insufficient data: no generic query results supplied")

	// ErrInvalidBrandName is returned when a target brand is empty or blank.
	ErrInvalidBrandName = errors.New("invalid brand name: empty or blank")

	// ErrNoCompetitorData is returned by gap analysis when the competitor
	// was never discovered or supplied. Distinct from the valid zero-gaps
	// outcome, which returns an empty slice and no error.
	ErrNoCompetitorData = errors.New("no competitor data: competitor was never discovered or supplied")
)
