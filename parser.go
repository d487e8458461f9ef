package bootkit

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SourceParser turns a collected source descriptor into a normalized model
// contribution. It is a registered service: the bootstrap container binds a
// default implementation, and a standard container can override it to
// support other descriptor formats.
type SourceParser interface {
	Parse(desc SourceDescriptor, r Registry) (*ModelContribution, error)
}

// StandardSourceParser is the default SourceParser.
//
//   - Direct references accept EntityMapping, []EntityMapping, and
//     ModelContribution values (or pointers to them).
//   - Named sources resolve through the StrategySelector's named
//     contributions (see RegisterNamedSource).
//   - Resource locators are opened through the ResourceLoader and decoded
//     as YAML mapping documents.
type StandardSourceParser struct {
	loader   ResourceLoader
	selector *StrategySelector
}

var _ SourceParser = (*StandardSourceParser)(nil)

// NewStandardSourceParser returns a parser over the given collaborators.
func NewStandardSourceParser(loader ResourceLoader, selector *StrategySelector) *StandardSourceParser {
	return &StandardSourceParser{loader: loader, selector: selector}
}

// Parse resolves the descriptor into a contribution. Every entity in the
// result carries the descriptor's location as its Source.
func (p *StandardSourceParser) Parse(desc SourceDescriptor, r Registry) (*ModelContribution, error) {
	var (
		contribution *ModelContribution
		err          error
	)

	switch desc.Kind {
	case SourceDirect:
		contribution, err = p.parseDirect(desc)
	case SourceName:
		contribution, err = p.parseNamed(desc)
	case SourceResource:
		contribution, err = p.parseResource(desc)
	default:
		err = fmt.Errorf("unsupported source kind %s", desc.Kind)
	}
	if err != nil {
		return nil, err
	}

	location := desc.location()
	for i := range contribution.Entities {
		if contribution.Entities[i].Name == "" {
			return nil, errors.New("mapping entity has no name")
		}
		contribution.Entities[i].Source = location
	}

	return contribution, nil
}

func (p *StandardSourceParser) parseDirect(desc SourceDescriptor) (*ModelContribution, error) {
	switch ref := desc.Ref.(type) {
	case EntityMapping:
		return &ModelContribution{Entities: []EntityMapping{ref.clone()}}, nil
	case *EntityMapping:
		return &ModelContribution{Entities: []EntityMapping{ref.clone()}}, nil
	case []EntityMapping:
		out := make([]EntityMapping, len(ref))
		for i, m := range ref {
			out[i] = m.clone()
		}
		return &ModelContribution{Entities: out}, nil
	case ModelContribution:
		return p.parseDirect(SourceDescriptor{Kind: SourceDirect, Ref: ref.Entities})
	case *ModelContribution:
		return p.parseDirect(SourceDescriptor{Kind: SourceDirect, Ref: ref.Entities})
	default:
		return nil, fmt.Errorf("unsupported direct reference type %T", desc.Ref)
	}
}

func (p *StandardSourceParser) parseNamed(desc SourceDescriptor) (*ModelContribution, error) {
	contribution, err := SelectStrategy[*ModelContribution](p.selector, desc.Name)
	if err != nil {
		return nil, err
	}
	return p.parseDirect(SourceDescriptor{Kind: SourceDirect, Ref: contribution.Entities})
}

// mappingDocument is the YAML shape of a resource mapping source.
type mappingDocument struct {
	Entities []struct {
		Name       string            `yaml:"name"`
		Table      string            `yaml:"table"`
		Schema     string            `yaml:"schema"`
		Attributes map[string]string `yaml:"attributes"`
	} `yaml:"entities"`
}

func (p *StandardSourceParser) parseResource(desc SourceDescriptor) (*ModelContribution, error) {
	rc, err := p.loader.Open(desc.Locator)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var doc mappingDocument
	if err := yaml.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, err
	}

	entities := make([]EntityMapping, 0, len(doc.Entities))
	for _, e := range doc.Entities {
		attrs := e.Attributes
		if attrs == nil {
			attrs = make(map[string]string)
		}
		entities = append(entities, EntityMapping{
			Name:       e.Name,
			Table:      e.Table,
			Schema:     e.Schema,
			Attributes: attrs,
		})
	}

	return &ModelContribution{Entities: entities}, nil
}

// RegisterNamedSource binds a named model contribution in the selector's
// override tier, making it resolvable through SourceCollector.AddByName.
func RegisterNamedSource(s *StrategySelector, name string, contribution ModelContribution) {
	s.Register(ContractOf[*ModelContribution](), name, func() any {
		c := contribution
		return &c
	})
}

// sourceParserInitiator is the bootstrap default for SourceParser. It wires
// the parser to the enclosing container's loader and selector, so overriding
// either collaborator reshapes parsing as well.
var sourceParserInitiator = NewInitiator(func(r Registry) (SourceParser, error) {
	loader, err := Resolve[ResourceLoader](r)
	if err != nil {
		return nil, err
	}
	selector, err := Resolve[*StrategySelector](r)
	if err != nil {
		return nil, err
	}
	return NewStandardSourceParser(loader, selector), nil
})
