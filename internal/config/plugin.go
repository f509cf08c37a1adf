// internal/config/plugin.go
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PluginRef references an engine plugin. The engine treats it as opaque:
// either a bare module name or a name plus an options object.
//
// In site.yaml all three of these forms are accepted:
//
//	plugins:
//	  - ./plugins/tailwind-config.cjs
//	  - [plugin-ideal-image, {quality: 70}]
//	  - {name: plugin-pwa, options: {debug: true}}
type PluginRef struct {
	Name    string
	Options map[string]any
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PluginRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&p.Name)

	case yaml.SequenceNode:
		if len(value.Content) == 0 || len(value.Content) > 2 {
			return fmt.Errorf("line %d: plugin pair must have a name and at most one options object", value.Line)
		}
		if err := value.Content[0].Decode(&p.Name); err != nil {
			return fmt.Errorf("line %d: plugin name: %w", value.Line, err)
		}
		if len(value.Content) == 2 {
			if err := value.Content[1].Decode(&p.Options); err != nil {
				return fmt.Errorf("line %d: plugin options: %w", value.Line, err)
			}
		}
		return nil

	case yaml.MappingNode:
		var raw struct {
			Name    string         `yaml:"name"`
			Options map[string]any `yaml:"options"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		p.Name, p.Options = raw.Name, raw.Options
		return nil
	}
	return fmt.Errorf("line %d: unsupported plugin reference", value.Line)
}

// MarshalYAML implements yaml.Marshaler, writing the shortest form.
func (p PluginRef) MarshalYAML() (interface{}, error) {
	if len(p.Options) == 0 {
		return p.Name, nil
	}
	return []any{p.Name, p.Options}, nil
}
