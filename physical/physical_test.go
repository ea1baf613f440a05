package physical

import (
	"context"
	"fmt"
	"testing"

	"github.com/Masterminds/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-sql/tributary/tributary"
)

type fakeDatabase struct {
	version *semver.Version
	tables  map[string]tributary.Schema
}

func (d *fakeDatabase) ContractVersion() *semver.Version {
	return d.version
}

func (d *fakeDatabase) ListTables(ctx context.Context) ([]string, error) {
	var out []string
	for name := range d.tables {
		out = append(out, name)
	}
	return out, nil
}

func (d *fakeDatabase) GetTable(ctx context.Context, name string) (DatasourceImplementation, tributary.Schema, error) {
	schema, ok := d.tables[name]
	if !ok {
		return nil, tributary.Schema{}, fmt.Errorf("no such table: '%s'", name)
	}
	return &fakeImplementation{}, schema, nil
}

func TestDatasourceRepository_RegisterDatabase(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "supported contract version", version: "1.0.0", wantErr: false},
		{name: "newer minor within range", version: "1.4.2", wantErr: false},
		{name: "next major is rejected", version: "2.0.0", wantErr: true},
		{name: "prerelease contract is rejected", version: "0.9.0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository, err := NewDatasourceRepository()
			require.NoError(t, err)

			err = repository.RegisterDatabase("db", &fakeDatabase{version: semver.MustParse(tt.version)})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.version)
				assert.Contains(t, err.Error(), ">= 1.0.0, < 2.0.0")
				return
			}
			require.NoError(t, err)
		})
	}

	t.Run("duplicate name is rejected", func(t *testing.T) {
		repository, err := NewDatasourceRepository()
		require.NoError(t, err)
		db := &fakeDatabase{version: semver.MustParse("1.0.0")}
		require.NoError(t, repository.RegisterDatabase("db", db))
		require.Error(t, repository.RegisterDatabase("db", db))
	})
}

func TestDatasourceRepository_GetTable(t *testing.T) {
	schema := tributary.NewSchema([]tributary.SchemaField{
		{Name: "id", Type: tributary.Int},
	}, -1)

	repository, err := NewDatasourceRepository()
	require.NoError(t, err)
	require.NoError(t, repository.RegisterDatabase("warehouse", &fakeDatabase{
		version: semver.MustParse("1.0.0"),
		tables:  map[string]tributary.Schema{"cities": schema},
	}))
	repository.RegisterFileHandler("lines", func(name string) (DatasourceImplementation, tributary.Schema, error) {
		return &fakeImplementation{}, schema, nil
	})

	t.Run("database-qualified name goes to the database", func(t *testing.T) {
		impl, gotSchema, err := repository.GetTable(context.Background(), "warehouse.cities")
		require.NoError(t, err)
		assert.NotNil(t, impl)
		assert.Equal(t, schema, gotSchema)
	})

	t.Run("registered file extension goes to the file handler", func(t *testing.T) {
		impl, _, err := repository.GetTable(context.Background(), "some/dir/data.lines")
		require.NoError(t, err)
		assert.NotNil(t, impl)
	})

	t.Run("missing table surfaces the database error", func(t *testing.T) {
		_, _, err := repository.GetTable(context.Background(), "warehouse.nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonexistent")
	})

	t.Run("unknown database", func(t *testing.T) {
		_, _, err := repository.GetTable(context.Background(), "other.cities")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "other")
	})

	t.Run("bare unknown name", func(t *testing.T) {
		_, _, err := repository.GetTable(context.Background(), "mystery")
		require.Error(t, err)
	})
}
