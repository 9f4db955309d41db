package hierarchy

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"succession-go/internal/model"
	"succession-go/pkg/log"
)

// Format identifies the encoding of an external roster payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the roster format from a file or object name, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseRoster decodes an externally supplied member sequence.
// A payload whose top level is not a sequence yields an empty roster and no error;
// a sequence with an element that cannot be decoded is an error.
func ParseRoster(data []byte, format Format) ([]model.Member, error) {
	switch format {
	case FormatYAML:
		return parseYAMLRoster(data)
	case FormatJSON, "":
		return parseJSONRoster(data)
	default:
		return nil, fmt.Errorf("unsupported roster format %q", format)
	}
}

func parseJSONRoster(data []byte) ([]model.Member, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warnf("roster payload is not a JSON array, loading an empty list: %v", err)
		return []model.Member{}, nil
	}
	members := make([]model.Member, 0, len(items))
	for i, item := range items {
		var m model.Member
		if err := json.Unmarshal(item, &m); err != nil {
			return nil, fmt.Errorf("decode roster entry %d: %w", i, err)
		}
		members = append(members, m)
	}
	return members, nil
}

func parseYAMLRoster(data []byte) ([]model.Member, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Warnf("roster payload is not valid YAML, loading an empty list: %v", err)
		return []model.Member{}, nil
	}
	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.SequenceNode {
		log.Warnf("roster payload is not a YAML sequence, loading an empty list")
		return []model.Member{}, nil
	}
	members := make([]model.Member, 0, len(node.Content))
	for i, item := range node.Content {
		var m model.Member
		if err := item.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode roster entry %d: %w", i, err)
		}
		members = append(members, m)
	}
	return members, nil
}
