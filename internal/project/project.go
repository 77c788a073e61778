// Package project reads project metadata files. YAML and JSON are both
// accepted; keys are camelCase.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/grantcritic/internal/schema"
	"github.com/dshills/grantcritic/internal/schema/validate"
)

// file mirrors ProjectMetadata with loose string fields so spellings like
// "phase1" or "sttr" are normalized before validation.
type file struct {
	Institute                  string               `yaml:"institute"`
	Mechanism                  string               `yaml:"mechanism"`
	ProgramType                string               `yaml:"programType"`
	DirectCosts                *float64             `yaml:"directCosts"`
	SmallBusinessPercent       *float64             `yaml:"smallBusinessPercent"`
	ResearchInstitutionPercent *float64             `yaml:"researchInstitutionPercent"`
	ClinicalTrialIncluded      bool                 `yaml:"clinicalTrialIncluded"`
	FOANumber                  string               `yaml:"foaNumber"`
	FOAOverrides               *schema.FOAOverrides `yaml:"foaOverrides"`
}

// Load reads and validates a project metadata file.
func Load(path string) (schema.ProjectMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.ProjectMetadata{}, fmt.Errorf("reading project file: %w", err)
	}
	meta, err := Parse(data)
	if err != nil {
		return schema.ProjectMetadata{}, fmt.Errorf("project file %q: %w", path, err)
	}
	return meta, nil
}

// Parse decodes and validates project metadata. Unknown keys are rejected.
func Parse(data []byte) (schema.ProjectMetadata, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return schema.ProjectMetadata{}, fmt.Errorf("decoding project metadata: %w", err)
	}

	if err := f.checkRequired(); err != nil {
		return schema.ProjectMetadata{}, fmt.Errorf("invalid project metadata:\n%w", err)
	}

	meta := schema.ProjectMetadata{
		Institute:                  f.Institute,
		Mechanism:                  schema.ParseMechanism(f.Mechanism),
		ProgramType:                schema.ParseProgramType(f.ProgramType),
		DirectCosts:                *f.DirectCosts,
		SmallBusinessPercent:       *f.SmallBusinessPercent,
		ResearchInstitutionPercent: deref(f.ResearchInstitutionPercent),
		ClinicalTrialIncluded:      f.ClinicalTrialIncluded,
		FOANumber:                  f.FOANumber,
		FOAOverrides:               f.FOAOverrides,
	}
	if err := validate.Metadata(meta); err != nil {
		return schema.ProjectMetadata{}, fmt.Errorf("invalid project metadata:\n%w", err)
	}
	return meta, nil
}

// checkRequired rejects absent numeric fields, which would otherwise score as
// zero. researchInstitutionPercent is required for STTR only.
func (f file) checkRequired() error {
	var errs []error
	if f.DirectCosts == nil {
		errs = append(errs, errors.New("directCosts: required"))
	}
	if f.SmallBusinessPercent == nil {
		errs = append(errs, errors.New("smallBusinessPercent: required"))
	}
	if f.ResearchInstitutionPercent == nil && schema.ParseProgramType(f.ProgramType) == schema.ProgramSTTR {
		errs = append(errs, errors.New("researchInstitutionPercent: required for STTR"))
	}
	return errors.Join(errs...)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
