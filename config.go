package archecs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorldConfig tunes the capacity hints a World seeds its registries with.
// None of these bound anything at runtime — every registry still grows on
// demand — they only size the initial allocation to avoid early growth
// churn for a caller who already knows roughly how big their World will
// get. Grounded on the ambient config-file pattern the rest of the
// retrieved stack uses (yaml.v3-decoded structs), applied here to an ECS
// World that otherwise has no config surface of its own.
type WorldConfig struct {
	InitialEntityCapacity int `yaml:"initial_entity_capacity"`
	SparsePageSize        int `yaml:"sparse_page_size"`
}

// DefaultWorldConfig returns the WorldConfig a bare NewWorld() uses.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		InitialEntityCapacity: 256,
		SparsePageSize:        defaultPageSize,
	}
}

// LoadWorldConfig reads and decodes a YAML WorldConfig from path, filling
// any field left unset in the file with DefaultWorldConfig's value.
func LoadWorldConfig(path string) (WorldConfig, error) {
	cfg := DefaultWorldConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return WorldConfig{}, fmt.Errorf("archecs: reading world config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return WorldConfig{}, fmt.Errorf("archecs: decoding world config: %w", err)
	}
	if cfg.InitialEntityCapacity <= 0 {
		cfg.InitialEntityCapacity = DefaultWorldConfig().InitialEntityCapacity
	}
	if cfg.SparsePageSize <= 0 {
		cfg.SparsePageSize = DefaultWorldConfig().SparsePageSize
	}
	return cfg, nil
}
