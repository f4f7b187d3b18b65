// Package catalog holds the fixed table of public model ids served by the
// gateway and how each one maps onto a Workers AI model.
package catalog

import (
	"github.com/samber/lo"
)

// OutputKind describes what the provider returns for a model.
type OutputKind int

const (
	// OutputBinary models answer with raw image bytes.
	OutputBinary OutputKind = iota
	// OutputBase64JSON models answer with a JSON object whose "image" field
	// already holds base64 data.
	OutputBase64JSON
)

// Descriptor is one registry entry. ProviderRef is internal and must never be
// serialised to clients.
type Descriptor struct {
	ID           string
	ProviderRef  string
	MaxDimension int
	// AcceptsPromptOnly selects the lightweight parameter shape
	// ({prompt, steps}) instead of the full diffusion parameter set.
	AcceptsPromptOnly bool
	Output            OutputKind
	Object            string
	Created           int64
	OwnedBy           string
}

// PublicModel is the client facing projection of a Descriptor.
type PublicModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// Registry is an immutable lookup table. It has no write path once built.
type Registry struct {
	models []Descriptor
	byID   map[string]int
}

// New builds a registry from descriptors. Later duplicates of an id are
// ignored so lookups stay unambiguous.
func New(models ...Descriptor) *Registry {
	r := &Registry{byID: make(map[string]int, len(models))}
	for _, m := range models {
		if _, dup := r.byID[m.ID]; dup {
			continue
		}
		r.byID[m.ID] = len(r.models)
		r.models = append(r.models, m)
	}
	return r
}

const created = 1677610602

// Default returns the registry of models the gateway supports.
func Default() *Registry {
	return New(
		Descriptor{
			ID:           "stable-diffusion-xl",
			ProviderRef:  "@cf/stabilityai/stable-diffusion-xl-base-1.0",
			MaxDimension: 1024,
			Output:       OutputBinary,
			Object:       "model",
			Created:      created,
			OwnedBy:      "cloudflare",
		},
		Descriptor{
			ID:                "flux-1-schnell",
			ProviderRef:       "@cf/black-forest-labs/flux-1-schnell",
			MaxDimension:      1024,
			AcceptsPromptOnly: true,
			Output:            OutputBase64JSON,
			Object:            "model",
			Created:           created,
			OwnedBy:           "cloudflare",
		},
		Descriptor{
			ID:           "dreamshaper-8-lcm",
			ProviderRef:  "@cf/lykon/dreamshaper-8-lcm",
			MaxDimension: 1024,
			Output:       OutputBinary,
			Object:       "model",
			Created:      created,
			OwnedBy:      "cloudflare",
		},
	)
}

// Lookup returns a copy of the descriptor registered under id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.models[idx], true
}

// List returns every model stripped of its provider reference, in table order.
func (r *Registry) List() []PublicModel {
	return lo.Map(r.models, func(m Descriptor, _ int) PublicModel {
		return PublicModel{ID: m.ID, Object: m.Object, Created: m.Created, OwnedBy: m.OwnedBy}
	})
}

// IDs returns the public ids in table order.
func (r *Registry) IDs() []string {
	return lo.Map(r.models, func(m Descriptor, _ int) string { return m.ID })
}

// Limits maps each public id to its advertised max dimension.
func (r *Registry) Limits() map[string]int {
	return lo.Associate(r.models, func(m Descriptor) (string, int) {
		return m.ID, m.MaxDimension
	})
}
