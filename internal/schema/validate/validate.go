// Package validate checks caller-supplied project metadata at the boundary,
// before it reaches the audit engine. The engine itself scores whatever it is
// given.
package validate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dshills/grantcritic/internal/schema"
)

const schemaURL = "https://grantcritic.local/schemas/project-metadata.schema.json"

//go:embed metadata.schema.json
var metadataSchema string

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func metadataValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(metadataSchema)); err != nil {
			compileErr = fmt.Errorf("metadata schema load failed: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("metadata schema compile failed: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Metadata validates meta and reports every violation found, joined.
// A nil return means the metadata is safe to score.
func Metadata(meta schema.ProjectMetadata) error {
	v, err := metadataValidator()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding metadata: %w", err)
	}

	var errs []error
	if err := v.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("validating metadata: %w", err)
		}
		errs = append(errs, violations(ve)...)
	}
	if total := meta.SmallBusinessPercent + meta.ResearchInstitutionPercent; total > 100 {
		errs = append(errs, fmt.Errorf("/small_business_percent: allocations sum to %.1f%%, more than 100%%", total))
	}
	return errors.Join(errs...)
}

// violations flattens a validation error tree to its leaves, sorted by
// instance location so output is stable.
func violations(ve *jsonschema.ValidationError) []error {
	var leaves []*jsonschema.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].InstanceLocation < leaves[j].InstanceLocation
	})
	out := make([]error, len(leaves))
	for i, l := range leaves {
		loc := l.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out[i] = fmt.Errorf("%s: %s", loc, l.Message)
	}
	return out
}
