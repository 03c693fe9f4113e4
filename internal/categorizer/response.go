package categorizer

import (
	"strconv"
	"strings"
	"unicode"

	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/pipelineerror"
)

// parseCategoryID extracts a category id from the raw completion and
// validates it against the taxonomy snapshot for this call. The completion
// is untrusted input: anything that does not resolve to a member of the
// assignable set is a protocol violation, never a valid category.
func parseCategoryID(raw string, taxonomy models.Taxonomy) (uint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &pipelineerror.ModelResponseError{RawResponse: raw, Reason: "empty response"}
	}

	// Accept a bare number and tolerate light decoration ("ID: 3", "3.").
	digits := firstDigitRun(trimmed)
	if digits == "" {
		return 0, &pipelineerror.ModelResponseError{RawResponse: raw, Reason: "no category id found"}
	}

	id, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, &pipelineerror.ModelResponseError{RawResponse: raw, Reason: "unparsable category id"}
	}

	if !taxonomy.Contains(uint(id)) {
		return 0, &pipelineerror.ModelResponseError{RawResponse: raw, Reason: "category id not in taxonomy"}
	}
	return uint(id), nil
}

// firstDigitRun returns the first maximal run of decimal digits in s.
func firstDigitRun(s string) string {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			return s[start:i]
		}
	}
	if start != -1 {
		return s[start:]
	}
	return ""
}
