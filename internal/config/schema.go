package config

import (
	// embed is used to ship the document schema inside the binary.
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var documentSchema string

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Validate checks the document against the embedded schema: every required
// section is present and each has the expected shape. All violations are
// reported in one *MalformedConfigError whose Section is the first offender.
func (d *Document) Validate() error {
	data, err := d.JSON()
	if err != nil {
		return d.malformed("", "cannot render document", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return d.malformed("", "schema validation error", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]violation, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, violation{
			section: sectionOf(e),
			message: fmt.Sprintf("%s: %s", e.Field(), e.Description()),
		})
	}
	sort.SliceStable(violations, func(i, j int) bool {
		return requiredRank(violations[i].section) < requiredRank(violations[j].section)
	})

	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.message
	}
	return &MalformedConfigError{
		Source:  d.source,
		Section: violations[0].section,
		Reason:  "schema violation:\n- " + strings.Join(msgs, "\n- "),
	}
}

type violation struct {
	section string
	message string
}

// sectionOf maps a schema error to the top-level section it concerns.
func sectionOf(e gojsonschema.ResultError) string {
	field := e.Field()
	if field == "(root)" || field == "" {
		if prop, ok := e.Details()["property"].(string); ok {
			return prop
		}
		return ""
	}
	return strings.SplitN(field, ".", 2)[0]
}

// requiredRank orders violations by the canonical section order.
func requiredRank(section string) int {
	for i, s := range RequiredSections {
		if s == section {
			return i
		}
	}
	return len(RequiredSections)
}
