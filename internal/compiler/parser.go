package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is a decoded latticefile plus the facts the map form loses.
type Document struct {
	dto.Latticefile

	// GroupOrder is the declaration order of the groups mapping.
	GroupOrder []string
}

// Parser converts raw bytes into a Document. JSON is parsed as YAML.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data. Unknown keys are rejected so typos do not pass silently.
func (p *Parser) Parse(data []byte) (*Document, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty latticefile", domain.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	var raw map[string]any
	if err := root.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: top level must be a mapping: %v", domain.ErrInvalidConfig, err)
	}

	doc := &Document{GroupOrder: mappingKeys(&root, "groups")}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc.Latticefile,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return doc, nil
}

// mappingKeys returns the keys of the mapping found under key, in document order.
func mappingKeys(root *yaml.Node, key string) []string {
	n := root
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != key {
			continue
		}
		m := n.Content[i+1]
		if m.Kind != yaml.MappingNode {
			return nil
		}
		keys := make([]string, 0, len(m.Content)/2)
		for j := 0; j+1 < len(m.Content); j += 2 {
			keys = append(keys, m.Content[j].Value)
		}
		return keys
	}
	return nil
}
