package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver"
	"github.com/tidwall/btree"

	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

// Database keeps tables in memory, registered programmatically. It's used
// for constant tables and in tests.
type Database struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewDatabase() *Database {
	return &Database{
		tables: map[string]*Table{},
	}
}

type Table struct {
	Schema tributary.Schema

	rows    *btree.BTreeG[row]
	nextKey int64
}

type row struct {
	key    int64
	record []tributary.Value
}

func NewTable(schema tributary.Schema) *Table {
	return &Table{
		Schema: schema,
		rows: btree.NewBTreeG(func(a, b row) bool {
			return a.key < b.key
		}),
	}
}

// Insert appends a row. Rows keep insertion order.
func (t *Table) Insert(values []tributary.Value) error {
	if len(values) != len(t.Schema.Fields) {
		return fmt.Errorf("row has %d values, schema has %d fields", len(values), len(t.Schema.Fields))
	}
	t.rows.Set(row{
		key:    t.nextKey,
		record: values,
	})
	t.nextKey++
	return nil
}

func (t *Table) records() [][]tributary.Value {
	out := make([][]tributary.Value, 0, t.rows.Len())
	t.rows.Ascend(row{}, func(r row) bool {
		out = append(out, r.record)
		return true
	})
	return out
}

func (d *Database) AddTable(name string, table *Table) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tables[name]; ok {
		return fmt.Errorf("table '%s' already exists", name)
	}
	d.tables[name] = table
	return nil
}

func (d *Database) ContractVersion() *semver.Version {
	return semver.MustParse("1.0.0")
}

func (d *Database) ListTables(ctx context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.tables))
	for name := range d.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (d *Database) GetTable(ctx context.Context, name string) (physical.DatasourceImplementation, tributary.Schema, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	table, ok := d.tables[name]
	if !ok {
		return nil, tributary.Schema{}, fmt.Errorf("no such table: '%s'", name)
	}
	return &impl{
		table: table,
	}, table.Schema, nil
}
