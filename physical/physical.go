package physical

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/dgraph-io/ristretto"

	"github.com/tributary-sql/tributary/tributary"
)

type Environment struct {
	Datasources    *DatasourceRepository
	InputStrategy  InputReaderStrategy
	PhysicalConfig map[string]interface{}
}

// Database is a named connector instance resolving table names into
// datasource implementations, the way the catalog configured it.
type Database interface {
	// ContractVersion is the connector contract version the database was
	// built against, checked on registration.
	ContractVersion() *semver.Version
	ListTables(ctx context.Context) ([]string, error)
	GetTable(ctx context.Context, name string) (DatasourceImplementation, tributary.Schema, error)
}

// DatasourceImplementation produces the scan variant for one table, with
// the push-downs already applied by the optimizer.
type DatasourceImplementation interface {
	Scan(ctx context.Context, schema tributary.Schema, predicates []Expression) (ScanVariant, error)
}

// scanContractRange is the range of connector contract versions this
// lowering pass understands. A connector outside the range may hand back
// variants the builder doesn't know.
const scanContractRange = ">= 1.0.0, < 2.0.0"

var scanContractConstraint = mustConstraint(scanContractRange)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(fmt.Sprintf("[BUG] Couldn't parse scan contract constraint: %s", err))
	}
	return c
}

type DatasourceRepository struct {
	databases    map[string]Database
	fileHandlers map[string]func(name string) (DatasourceImplementation, tributary.Schema, error)

	// GetTable can probe remote metadata, so resolved tables are cached.
	tableCache *ristretto.Cache
}

type repositoryEntry struct {
	implementation DatasourceImplementation
	schema         tributary.Schema
}

func NewDatasourceRepository() (*DatasourceRepository, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't create table metadata cache: %w", err)
	}
	return &DatasourceRepository{
		databases:    map[string]Database{},
		fileHandlers: map[string]func(name string) (DatasourceImplementation, tributary.Schema, error){},
		tableCache:   cache,
	}, nil
}

func (dr *DatasourceRepository) RegisterDatabase(name string, db Database) error {
	if _, ok := dr.databases[name]; ok {
		return fmt.Errorf("database with name '%s' already registered", name)
	}
	if version := db.ContractVersion(); !scanContractConstraint.Check(version) {
		return fmt.Errorf("database '%s' implements scan contract version %s, supported range is %s", name, version, scanContractRange)
	}
	dr.databases[name] = db
	return nil
}

func (dr *DatasourceRepository) RegisterFileHandler(extension string, handler func(name string) (DatasourceImplementation, tributary.Schema, error)) {
	dr.fileHandlers[extension] = handler
}

func (dr *DatasourceRepository) Databases() map[string]Database {
	return dr.databases
}

// GetTable resolves a table name into its datasource implementation and
// schema. Names with a registered file extension go to the matching file
// handler, names of the form db.table to the registered database.
func (dr *DatasourceRepository) GetTable(ctx context.Context, name string) (DatasourceImplementation, tributary.Schema, error) {
	if entry, ok := dr.tableCache.Get(name); ok {
		cached := entry.(repositoryEntry)
		return cached.implementation, cached.schema, nil
	}

	if i := strings.LastIndex(name, "."); i != -1 {
		if handler, ok := dr.fileHandlers[name[i+1:]]; ok {
			impl, schema, err := handler(name)
			if err != nil {
				return nil, tributary.Schema{}, fmt.Errorf("couldn't open file datasource '%s': %w", name, err)
			}
			dr.tableCache.Set(name, repositoryEntry{implementation: impl, schema: schema}, 1)
			return impl, schema, nil
		}
	}

	if i := strings.Index(name, "."); i != -1 {
		db, ok := dr.databases[name[:i]]
		if !ok {
			return nil, tributary.Schema{}, fmt.Errorf("no such database: '%s'", name[:i])
		}
		impl, schema, err := db.GetTable(ctx, name[i+1:])
		if err != nil {
			return nil, tributary.Schema{}, fmt.Errorf("couldn't get table '%s': %w", name, err)
		}
		dr.tableCache.Set(name, repositoryEntry{implementation: impl, schema: schema}, 1)
		return impl, schema, nil
	}

	return nil, tributary.Schema{}, fmt.Errorf("unknown datasource: '%s'", name)
}
