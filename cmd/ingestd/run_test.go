package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/ingest"
)

func TestRenderReport(t *testing.T) {
	report := &ingest.RunReport{
		Sources: []ingest.SourceReport{
			{Source: "topcv", Fetched: 12, Accepted: 9, Rejected: 3, Published: 4},
			{Source: "other", Fetched: 5, Accepted: 2, Rejected: 2, Errors: 1},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "topcv")
	assert.Contains(t, out, "other")
	// Two sources get a totals footer.
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "17")
}

func TestRenderReport_SingleSourceNoFooter(t *testing.T) {
	report := &ingest.RunReport{
		Sources: []ingest.SourceReport{
			{Source: "topcv", Fetched: 3, Accepted: 3},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)

	assert.NotContains(t, buf.String(), "TOTAL")
}
