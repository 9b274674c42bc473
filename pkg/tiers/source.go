package tiers

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrFailedToLoadCatalog = errors.New("tiers: failed to load catalog")

// Source defines how a tier catalog is loaded at startup.
type Source interface {
	Load() (Catalog, error)
}

// StaticSource serves the compiled-in catalog.
type StaticSource struct{}

func (StaticSource) Load() (Catalog, error) {
	return defaultCatalog, nil
}

// YAMLSource loads the catalog from a YAML file so pricing can be tuned
// per deployment without a rebuild. The file holds a list of tier entries:
//
//	- level: bronze
//	  name: Bronze
//	  price: {amount: 0, currency: EUR}
//	  interval: none
//	  limits:
//	    representatives: 3
//	    emergency_contacts: 1
//	    storage_gb: 0.1
//	    documents: 10
type YAMLSource struct {
	Path string
}

func (s YAMLSource) Load() (Catalog, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return Catalog{}, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var entries []Tier
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return Catalog{}, errors.Join(ErrFailedToLoadCatalog, err)
	}

	catalog, err := NewCatalog(entries...)
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %w", ErrFailedToLoadCatalog, err)
	}
	return catalog, nil
}
