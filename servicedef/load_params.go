package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

// LoadParams are the arguments of a load command.
type LoadParams struct {
	URL      string
	Password ldvalue.OptionalString
	// Options is a JSON object sent verbatim, such as rendering options. It is omitted if null.
	Options ldvalue.Value
}

// RenderingOption builds the options object that sets a single boolean rendering option,
// in the form {"rendering":{"<name>":{"type":"boolean","value":"true"}}}.
func RenderingOption(name string, enabled bool) ldvalue.Value {
	value := "false"
	if enabled {
		value = "true"
	}
	option := ldvalue.ObjectBuild().
		Set("type", ldvalue.String("boolean")).
		Set("value", ldvalue.String(value)).
		Build()
	return ldvalue.ObjectBuild().
		Set("rendering", ldvalue.ObjectBuild().Set(name, option).Build()).
		Build()
}
