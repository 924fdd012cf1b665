package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"pretty", "csv", "json"} {
		assert.NoError(t, ValidateOutputFormat(format), format)
	}

	// Matching is exact: no case folding and no trimming.
	for _, format := range []string{"", "PRETTY", "Pretty", "CSV", "JSON", " pretty ", "prettyprint", "xml", "yaml"} {
		err := ValidateOutputFormat(format)
		if assert.Error(t, err, "%q should be rejected", format) {
			assert.Contains(t, err.Error(), "pretty, csv or json")
		}
	}
}
