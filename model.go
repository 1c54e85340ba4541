package apsara

import "fmt"

// Capabilities flags what a model can do beyond plain text generation.
type Capabilities struct {
	StructuredOutputs bool
	Caching           bool
	Tuning            bool
	FunctionCalling   bool
	CodeExecution     bool
	Search            bool
	ImageGeneration   bool
	NativeToolUse     bool
	LiveAPI           bool
	Thinking          bool
}

// ModelInfo describes one entry in the model catalog.
type ModelInfo struct {
	ID                  string
	DisplayName         string
	Description         string
	InputTokenLimit     int
	OutputTokenLimit    int
	SupportsImage       bool
	SupportsAudio       bool
	SupportsVideo       bool
	SupportsImageOutput bool
	Capabilities        Capabilities
}

// Catalog is an immutable, explicitly constructed model lookup table.
// It is passed into the engine at construction time rather than accessed
// as ambient state, so tests can substitute a reduced catalog.
type Catalog struct {
	models map[string]ModelInfo
	order  []string
}

// NewCatalog builds a catalog from the given models, preserving order.
func NewCatalog(models ...ModelInfo) *Catalog {
	c := &Catalog{models: make(map[string]ModelInfo, len(models))}
	for _, m := range models {
		if _, ok := c.models[m.ID]; ok {
			continue
		}
		c.models[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	return c
}

// Lookup returns the model with the given id.
func (c *Catalog) Lookup(id string) (ModelInfo, error) {
	m, ok := c.models[id]
	if !ok {
		return ModelInfo{}, fmt.Errorf("model %q: %w", id, ErrModelNotFound)
	}
	return m, nil
}

// IDs returns all model ids in registration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Models returns all catalog entries in registration order.
func (c *Catalog) Models() []ModelInfo {
	models := make([]ModelInfo, len(c.order))
	for i, id := range c.order {
		models[i] = c.models[id]
	}
	return models
}
