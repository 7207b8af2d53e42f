package ai

import "sort"

// Schema is the subset of JSON Schema understood by both providers.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

func str(desc string) *Schema     { return &Schema{Type: "string", Description: desc} }
func num(desc string) *Schema     { return &Schema{Type: "number", Description: desc} }
func integer(desc string) *Schema { return &Schema{Type: "integer", Description: desc} }
func array(items *Schema) *Schema { return &Schema{Type: "array", Items: items} }
func strList() *Schema            { return array(&Schema{Type: "string"}) }

// object requires every property.
func object(props map[string]*Schema) *Schema {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	sort.Strings(required)
	return &Schema{Type: "object", Properties: props, Required: required}
}

// Map returns a copy of s with every `type` transformed by typeFn.
func (s *Schema) Map(typeFn func(string) string) *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Type = typeFn(s.Type)
	if s.Properties != nil {
		c.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			c.Properties[k] = v.Map(typeFn)
		}
	}
	c.Items = s.Items.Map(typeFn)
	if s.Required != nil {
		c.Required = append([]string(nil), s.Required...)
	}
	return &c
}
