package registry

import (
	"errors"
	"fmt"
	"sync"

	"gopkg.in/ini.v1"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/store/source"
	csvsource "github.com/retail-tools/retail-atlas/pkg/store/source/csv"
	mysqlsource "github.com/retail-tools/retail-atlas/pkg/store/source/mysql"
	xlsxsource "github.com/retail-tools/retail-atlas/pkg/store/source/xlsx"
)

// ErrProfileNotFound reports a profile name with no section in the loaded
// profiles file.
var ErrProfileNotFound = errors.New("profile not found")

// Settings are the key/value pairs of one profile section.
type Settings map[string]string

// Factory builds a Source from a profile's settings.
type Factory func(settings Settings) (source.Source, error)

// Registry resolves named source profiles from an ini file into open
// Sources. Profile sections look like:
//
//	[uk-retail]
//	type  = csv
//	path  = /data/online_retail.csv
//
//	[warehouse]
//	type  = mysql
//	dsn   = user:pwd@tcp(localhost:3306)/retail
//	table = transactions
type Registry struct {
	mu        sync.RWMutex
	factories map[domain.SourceType]Factory
	cfg       *ini.File
}

func New(profilesPath string) (*Registry, error) {
	cfg, err := ini.Load(profilesPath)
	if err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", profilesPath, err)
	}

	r := &Registry{
		factories: make(map[domain.SourceType]Factory),
		cfg:       cfg,
	}
	r.factories[domain.SourceTypeCSV] = csvFactory
	r.factories[domain.SourceTypeExcel] = xlsxFactory
	r.factories[domain.SourceTypeMySQL] = mysqlFactory
	return r, nil
}

// Register adds or replaces the factory for a source type.
func (r *Registry) Register(t domain.SourceType, factory Factory) error {
	if t == "" {
		return fmt.Errorf("source type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[t] = factory
	return nil
}

// Profiles lists every configured source profile.
func (r *Registry) Profiles() []domain.SourceProfile {
	var profiles []domain.SourceProfile
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue // skip the implicit DEFAULT section
		}
		profiles = append(profiles, domain.SourceProfile{
			Name: section.Name(),
			Type: domain.SourceType(section.Key("type").String()),
		})
	}
	return profiles
}

// Open resolves a profile by name and builds its Source. The caller owns the
// returned Source and must Close it.
func (r *Registry) Open(name string) (source.Source, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, ErrProfileNotFound)
	}

	sourceType := domain.SourceType(section.Key("type").String())

	r.mu.RLock()
	factory, ok := r.factories[sourceType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("profile %q: unsupported source type %q", name, sourceType)
	}

	settings := make(Settings, len(section.Keys()))
	for _, key := range section.Keys() {
		settings[key.Name()] = key.String()
	}
	return factory(settings)
}

func csvFactory(settings Settings) (source.Source, error) {
	path := settings["path"]
	if path == "" {
		return nil, fmt.Errorf("csv source requires a path")
	}
	return csvsource.NewSource(path), nil
}

func xlsxFactory(settings Settings) (source.Source, error) {
	path := settings["path"]
	if path == "" {
		return nil, fmt.Errorf("xlsx source requires a path")
	}
	return xlsxsource.NewSource(path, settings["sheet"]), nil
}

func mysqlFactory(settings Settings) (source.Source, error) {
	dsn := settings["dsn"]
	table := settings["table"]
	if dsn == "" || table == "" {
		return nil, fmt.Errorf("mysql source requires dsn and table")
	}
	return mysqlsource.Open(mysqlsource.Config{DSN: dsn, Table: table})
}
