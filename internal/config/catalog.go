package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoDocumentSelected = errors.New("select at least one document")
	ErrUnknownDocument    = errors.New("unknown document")
)

// DocumentID names a configured document.
type DocumentID string

// Catalog maps document ids to their configuration and curated questions.
type Catalog struct {
	order []DocumentID
	docs  map[DocumentID]DocumentConfig
}

func NewCatalog(docs []DocumentConfig) (*Catalog, error) {
	c := &Catalog{docs: make(map[DocumentID]DocumentConfig, len(docs))}
	for _, d := range docs {
		id := DocumentID(strings.TrimSpace(d.ID))
		if id == "" {
			return nil, fmt.Errorf("document %q: id is required", d.Title)
		}
		if d.Path == "" {
			return nil, fmt.Errorf("document %q: path is required", id)
		}
		if _, dup := c.docs[id]; dup {
			return nil, fmt.Errorf("document %q: duplicate id", id)
		}
		if d.Title == "" {
			d.Title = string(id)
		}
		c.order = append(c.order, id)
		c.docs[id] = d
	}
	return c, nil
}

// Catalog builds the document catalog. The configuration was validated by
// Parse, so the error only surfaces for configs assembled by hand.
func (c *Config) Catalog() (*Catalog, error) {
	return NewCatalog(c.Documents)
}

// Lookup returns the document registered under id.
func (c *Catalog) Lookup(id DocumentID) (DocumentConfig, error) {
	if strings.TrimSpace(string(id)) == "" {
		return DocumentConfig{}, ErrNoDocumentSelected
	}
	d, ok := c.docs[id]
	if !ok {
		return DocumentConfig{}, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return d, nil
}

// Questions returns the curated questions for id.
func (c *Catalog) Questions(id DocumentID) ([]string, error) {
	d, err := c.Lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), d.Questions...), nil
}

// IDs lists the document ids in configuration order.
func (c *Catalog) IDs() []DocumentID {
	return append([]DocumentID(nil), c.order...)
}

// Documents lists the configured documents in configuration order.
func (c *Catalog) Documents() []DocumentConfig {
	out := make([]DocumentConfig, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}
