package bootkit

// EntityMapping is the normalized in-memory form of one mapped entity.
// Source records the locator of the mapping source that contributed it,
// so conflicts can name their origins.
type EntityMapping struct {
	Name       string
	Table      string
	Schema     string
	Attributes map[string]string
	Source     string
}

// clone deep-copies the mapping so Metadata never aliases builder state.
func (m EntityMapping) clone() EntityMapping {
	attrs := make(map[string]string, len(m.Attributes))
	for k, v := range m.Attributes {
		attrs[k] = v
	}
	m.Attributes = attrs
	return m
}

// ModelContribution is the normalized output of parsing one mapping source.
type ModelContribution struct {
	Entities []EntityMapping
}
