package tax

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"fincalc/internal/errors"
	"fincalc/internal/logging"
)

// Registry holds tax tables by ID. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]Config
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]Config),
	}
}

// NewDefaultRegistry registers the built-in tables, then every *.hcl table
// found in dir (if dir is non-empty).
func NewDefaultRegistry(dir string) (*Registry, error) {
	r := NewRegistry()

	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, cfg := range builtin {
		if err := r.Register(cfg); err != nil {
			return nil, err
		}
	}

	if dir == "" {
		return r, nil
	}
	custom, err := LoadHCLDir(dir)
	if err != nil {
		return nil, err
	}
	for _, cfg := range custom {
		if err := r.Register(cfg); err != nil {
			return nil, err
		}
		logging.Debug("Loaded custom tax table", zap.String("id", cfg.ID), zap.String("dir", dir))
	}
	return r, nil
}

// Register validates cfg and adds it. IDs must be unique.
func (r *Registry) Register(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[cfg.ID]; exists {
		return errors.Table(cfg.ID, "already registered")
	}
	r.tables[cfg.ID] = cfg
	return nil
}

// Get returns the table with the given ID
func (r *Registry) Get(id string) (Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.tables[id]
	if !ok {
		return Config{}, errors.NotFound("tax table", id)
	}
	return cfg, nil
}

// List returns all tables sorted by ID
func (r *Registry) List() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]Config, 0, len(r.tables))
	for _, cfg := range r.tables {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })
	return configs
}
