package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/envmesh/core"
)

// Manifest is a declarative set of spec overrides, typically loaded from a
// YAML file checked in next to experiment configs:
//
//	specs:
//	  - id: CartPole-v1
//	    max_episode_steps: 200
//	    reward_threshold: 195
type Manifest struct {
	Specs []core.EnvSpec `yaml:"specs"`
}

// LoadManifest decodes a manifest and applies its spec overrides to already
// registered ids. Overriding an unregistered id fails with ErrNotFound;
// factories always come from code, never from manifests.
func (r *Registry) LoadManifest(reader io.Reader) error {
	var m Manifest
	if err := yaml.NewDecoder(reader).Decode(&m); err != nil {
		return fmt.Errorf("registry: decoding manifest: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, spec := range m.Specs {
		if _, ok := r.specs[spec.ID]; !ok {
			return fmt.Errorf("%w: manifest overrides unregistered id %s", core.ErrNotFound, spec.ID)
		}
		r.specs[spec.ID] = spec
	}
	return nil
}

// LoadManifestFile applies the manifest at path.
func (r *Registry) LoadManifestFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("registry: opening manifest: %w", err)
	}
	defer f.Close()

	return r.LoadManifest(f)
}
