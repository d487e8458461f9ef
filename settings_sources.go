package bootkit

import (
	"fmt"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SettingsSource loads a flat key/value mapping from an external locator.
// The pipeline treats sources as opaque collaborators; it only requires the
// loaded mapping. Implementations decide what a locator means.
type SettingsSource interface {
	Load(locator string) (map[string]string, error)
}

// EnvFileSource loads dotenv/properties-style files through godotenv. It is
// the default source behind StandardBuilder.LoadProperties.
type EnvFileSource struct {
	// Loader opens locators. Required.
	Loader ResourceLoader
}

var _ SettingsSource = EnvFileSource{}

// Load opens the locator and parses it as a KEY=VALUE properties file.
func (s EnvFileSource) Load(locator string) (map[string]string, error) {
	rc, err := s.Loader.Open(locator)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	values, err := godotenv.Parse(rc)
	if err != nil {
		return nil, err
	}
	return values, nil
}

// YAMLSource loads structured YAML configuration, flattening nested mappings
// into dotted keys ("database.pool.size"). It is the default source behind
// StandardBuilder.Configure.
type YAMLSource struct {
	// Loader opens locators. Required.
	Loader ResourceLoader
}

var _ SettingsSource = YAMLSource{}

// Load opens the locator, decodes the YAML document, and flattens it.
func (s YAMLSource) Load(locator string) (map[string]string, error) {
	rc, err := s.Loader.Open(locator)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var doc map[string]any
	if err := yaml.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	flattenInto(values, "", doc)
	return values, nil
}

// flattenInto writes doc into values using dotted key paths. Sequence values
// are indexed ("tags.0", "tags.1") so ordering survives the flattening.
func flattenInto(values map[string]string, prefix string, doc map[string]any) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		switch v := doc[k].(type) {
		case map[string]any:
			flattenInto(values, path, v)
		case []any:
			for i, item := range v {
				idxPath := fmt.Sprintf("%s.%d", path, i)
				if nested, ok := item.(map[string]any); ok {
					flattenInto(values, idxPath, nested)
				} else {
					values[idxPath] = fmt.Sprint(item)
				}
			}
		case nil:
			values[path] = ""
		default:
			values[path] = fmt.Sprint(v)
		}
	}
}
