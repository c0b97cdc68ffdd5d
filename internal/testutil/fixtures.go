package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/staticmodel/internal/model"
)

// Country is the typed shape of the country fixtures.
type Country struct {
	Name     string `attr:"name"`
	ISOCode  string `attr:"iso_code"`
	Language string `attr:"language"`
}

// Thing is the typed shape of the integer-keyed fixtures.
type Thing struct {
	ID   int64  `attr:"id"`
	Name string `attr:"name"`
}

// Countries returns US, CA and MX in that order.
func Countries() []Country {
	return []Country{
		{Name: "United States", ISOCode: "US", Language: "English"},
		{Name: "Canada", ISOCode: "CA", Language: "English"},
		{Name: "Mexico", ISOCode: "MX", Language: "Spanish"},
	}
}

// NewCountryType creates an empty Country type keyed by iso_code.
func NewCountryType() *model.Type {
	return model.NewType("Country", model.WithPrimaryKey("iso_code"))
}

// LoadCountries creates the Country type and loads Countries into it.
func LoadCountries(t testing.TB) *model.Type {
	t.Helper()
	country := NewCountryType()
	require.NoError(t, model.Bound[Country](country).Load(Countries()))
	return country
}

// LoadRegions extends country with a Region type holding the European Union.
// The parent's records are untouched.
func LoadRegions(t testing.TB, country *model.Type) *model.Type {
	t.Helper()
	region := country.Extend("Region")
	eu := region.MustBuild(map[string]any{
		"name":        "European Union",
		"iso_code":    "EU",
		"description": "A union of Europeans",
	})
	require.NoError(t, region.Store().Load([]model.Record{eu}))
	return region
}

// LoadThings creates a Thing type keyed by integer id with ids 1..3.
func LoadThings(t testing.TB) *model.Type {
	t.Helper()
	thing := model.NewType("Thing")
	require.NoError(t, model.Bound[Thing](thing).Load([]Thing{
		{ID: 1, Name: "Thing 1"},
		{ID: 2, Name: "Thing 2"},
		{ID: 3, Name: "Thing 3"},
	}))
	return thing
}

// Registry returns a registry with Country, Region and Thing loaded.
func Registry(t testing.TB) *model.Registry {
	t.Helper()
	reg := model.NewRegistry()
	country := LoadCountries(t)
	require.NoError(t, reg.Register(country))
	require.NoError(t, reg.Register(LoadRegions(t, country)))
	require.NoError(t, reg.Register(LoadThings(t)))
	return reg
}
