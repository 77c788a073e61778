package render

import (
	"encoding/json"

	"github.com/dshills/grantcritic/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(report *schema.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

func (r *jsonRenderer) RenderAlignment(score *schema.AgencyAlignmentScore) ([]byte, error) {
	return json.MarshalIndent(score, "", "  ")
}
