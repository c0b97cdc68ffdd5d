package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/testutil"
	"github.com/roach88/staticmodel/internal/value"
)

func TestRecord_AssignsAttributes(t *testing.T) {
	country := testutil.NewCountryType()
	us := country.MustBuild(map[string]any{"name": "United States", "iso_code": "US"})

	assert.Equal(t, value.String("United States"), us.Get("name"))
	assert.Equal(t, value.String("US"), us.PrimaryKey())
	assert.Equal(t, []string{"iso_code", "name"}, us.Names())
	assert.Same(t, country, us.Type())
}

func TestRecord_AbsentAttributeIsNull(t *testing.T) {
	country := testutil.NewCountryType()
	us := country.MustBuild(map[string]any{"iso_code": "US"})

	assert.Equal(t, value.Null{}, us.Get("language"))
	_, ok := us.Lookup("language")
	assert.False(t, ok)

	v, ok := us.Lookup("iso_code")
	assert.True(t, ok)
	assert.Equal(t, value.String("US"), v)
}

func TestRecord_IsImmutable(t *testing.T) {
	country := testutil.NewCountryType()
	attrs := value.Object{"iso_code": value.String("US"), "tags": value.List{value.String("a")}}
	us := country.New(attrs)

	attrs["iso_code"] = value.String("CA")
	attrs["tags"].(value.List)[0] = value.String("b")
	assert.Equal(t, value.String("US"), us.Get("iso_code"), "constructor input is copied")

	copied := us.Attributes()
	copied["iso_code"] = value.String("MX")
	assert.Equal(t, value.String("US"), us.Get("iso_code"), "Attributes returns a copy")

	renamed := us.With("name", value.String("United States"))
	assert.Equal(t, value.Null{}, us.Get("name"), "With leaves the receiver unchanged")
	assert.Equal(t, value.String("United States"), renamed.Get("name"))
}

func TestRecord_ListAttributesAreNotShared(t *testing.T) {
	tagged := model.NewType("Tagged")
	tags := []any{"a", value.List{value.String("b")}}
	r := tagged.MustBuild(map[string]any{"id": value.List{value.Int(1), value.Int(2)}, "tags": tags})
	hash := r.Hash()

	tags[0] = "MUTATED"
	tags[1].(value.List)[0] = value.String("MUTATED")
	r.Get("tags").(value.List)[0] = value.String("MUTATED")
	looked, _ := r.Lookup("tags")
	looked.(value.List)[1].(value.List)[0] = value.String("MUTATED")
	r.PrimaryKey().(value.List)[0] = value.Int(9)

	assert.Equal(t, value.List{value.String("a"), value.List{value.String("b")}}, r.Get("tags"))
	assert.Equal(t, value.List{value.Int(1), value.Int(2)}, r.PrimaryKey())
	assert.Equal(t, hash, r.Hash(), "identity survives attempts to edit the key")
	assert.True(t, r.Equal(tagged.MustBuild(map[string]any{"id": []int{1, 2}})))

	pk := value.List{value.Int(3)}
	with := r.With("id", pk)
	pk[0] = value.Int(4)
	assert.Equal(t, value.List{value.Int(3)}, with.PrimaryKey(), "With copies its argument")
}

func TestRecord_BuildRejectsFloats(t *testing.T) {
	_, err := testutil.NewCountryType().Build(map[string]any{"area": 9.8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build Country")
}

func TestRecord_Equality(t *testing.T) {
	country := testutil.NewCountryType()
	region := country.Extend("Region")

	us := country.MustBuild(map[string]any{"iso_code": "US", "name": "United States"})
	usAgain := country.MustBuild(map[string]any{"iso_code": "US", "name": "USA"})
	ca := country.MustBuild(map[string]any{"iso_code": "CA"})
	usRegion := region.MustBuild(map[string]any{"iso_code": "US"})
	noKey := country.MustBuild(map[string]any{"name": "Nowhere"})
	nullKey := country.MustBuild(map[string]any{"iso_code": nil})

	tests := []struct {
		name string
		a, b model.Record
		want bool
	}{
		{"same key other attributes", us, usAgain, true},
		{"reflexive", us, us, true},
		{"different keys", us, ca, false},
		{"parent vs child type", us, usRegion, false},
		{"child vs parent type", usRegion, us, false},
		{"absent key", noKey, noKey, false},
		{"null key", nullKey, nullKey, false},
		{"zero records", model.Record{}, model.Record{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
		})
	}
}

func TestRecord_EqualRecordsHashEqual(t *testing.T) {
	country := testutil.NewCountryType()
	us := country.MustBuild(map[string]any{"iso_code": "US", "name": "United States"})
	usAgain := country.MustBuild(map[string]any{"iso_code": "US"})
	ca := country.MustBuild(map[string]any{"iso_code": "CA"})
	noKey := country.MustBuild(map[string]any{"name": "Nowhere"})

	assert.Equal(t, us.Hash(), usAgain.Hash())
	assert.NotEqual(t, us.Hash(), ca.Hash())
	assert.Equal(t, value.Hash(value.Null{}), noKey.Hash())
}

func TestRecord_SetPrimaryKeyChangesIdentity(t *testing.T) {
	thing := model.NewType("Thing")
	a := thing.MustBuild(map[string]any{"id": 1, "code": "x"})
	b := thing.MustBuild(map[string]any{"id": 2, "code": "x"})

	assert.False(t, a.Equal(b))

	thing.SetPrimaryKey("code")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestRecord_JSONAndString(t *testing.T) {
	country := testutil.NewCountryType()
	us := country.MustBuild(map[string]any{"name": "United States", "iso_code": "US", "rank": nil})

	out, err := json.Marshal(us)
	require.NoError(t, err)
	assert.JSONEq(t, `{"iso_code":"US","name":"United States","rank":null}`, string(out))
	assert.Equal(t, `Country{"iso_code":"US","name":"United States","rank":null}`, us.String())
	assert.Equal(t, `<nil>{}`, model.Record{}.String())
}
