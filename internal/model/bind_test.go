package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/testutil"
	"github.com/roach88/staticmodel/internal/value"
)

type planet struct {
	ID        int      `attr:"id"`
	Name      string   // maps to "name"
	Moons     []string `attr:"moons"`
	Ringed    bool     `attr:"ringed,omitempty"`
	Nickname  *string  `attr:"nickname"`
	Extra     any      `attr:"extra"`
	Raw       value.Value
	Ignored   string `attr:"-"`
	unexposed string
}

func TestAttributes(t *testing.T) {
	nick := "Red"
	obj, err := model.Attributes(planet{
		ID:        4,
		Name:      "Mars",
		Moons:     []string{"Phobos", "Deimos"},
		Nickname:  &nick,
		Ignored:   "x",
		unexposed: "y",
	})
	require.NoError(t, err)

	assert.Equal(t, value.Object{
		"id":       value.Int(4),
		"name":     value.String("Mars"),
		"moons":    value.List{value.String("Phobos"), value.String("Deimos")},
		"nickname": value.String("Red"),
		"extra":    value.Null{},
		"raw":      value.Null{},
	}, obj)
}

func TestAttributes_Errors(t *testing.T) {
	_, err := model.Attributes(42)
	assert.Error(t, err)

	var nilPtr *planet
	_, err = model.Attributes(nilPtr)
	assert.Error(t, err)

	_, err = model.Attributes(struct{ Ratio float64 }{Ratio: 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field Ratio")
}

func TestBind(t *testing.T) {
	typ := model.NewType("Planet")
	r := typ.MustBuild(map[string]any{
		"id":       4,
		"name":     "Mars",
		"moons":    []string{"Phobos", "Deimos"},
		"ringed":   false,
		"nickname": "Red",
		"extra":    []any{1, "two"},
		"raw":      "kept",
		"Ignored":  "never",
	})

	var p planet
	require.NoError(t, model.Bind(r, &p))

	assert.Equal(t, 4, p.ID)
	assert.Equal(t, "Mars", p.Name)
	assert.Equal(t, []string{"Phobos", "Deimos"}, p.Moons)
	require.NotNil(t, p.Nickname)
	assert.Equal(t, "Red", *p.Nickname)
	assert.Equal(t, []any{int64(1), "two"}, p.Extra)
	assert.Equal(t, value.String("kept"), p.Raw)
	assert.Empty(t, p.Ignored)
}

func TestBind_AbsentAndNullLeaveZero(t *testing.T) {
	typ := model.NewType("Planet")
	r := typ.MustBuild(map[string]any{"id": 1, "nickname": nil})

	p := planet{Name: "preset"}
	require.NoError(t, model.Bind(r, &p))
	assert.Equal(t, "preset", p.Name)
	assert.Nil(t, p.Nickname)
}

func TestBind_ValueFieldIsACopy(t *testing.T) {
	typ := model.NewType("Planet")
	r := typ.MustBuild(map[string]any{"id": 4, "raw": []string{"Phobos"}})

	var p planet
	require.NoError(t, model.Bind(r, &p))
	p.Raw.(value.List)[0] = value.String("MUTATED")

	assert.Equal(t, value.List{value.String("Phobos")}, r.Get("raw"))
}

func TestBind_Errors(t *testing.T) {
	typ := model.NewType("Planet")

	var p planet
	assert.Error(t, model.Bind(typ.MustBuild(map[string]any{"id": "four"}), &p), "kind mismatch")
	assert.Error(t, model.Bind(typ.MustBuild(map[string]any{"id": 1}), p), "not a pointer")
	assert.Error(t, model.Bind(typ.MustBuild(map[string]any{"id": 1}), (*planet)(nil)))

	var small struct {
		N int8   `attr:"n"`
		U uint16 `attr:"u"`
	}
	assert.Error(t, model.Bind(typ.MustBuild(map[string]any{"n": 300}), &small), "int8 overflow")
	assert.Error(t, model.Bind(typ.MustBuild(map[string]any{"u": -1}), &small), "negative into unsigned")
}

func TestTyped(t *testing.T) {
	country := testutil.LoadCountries(t)
	countries := model.Bound[testutil.Country](country)
	assert.Same(t, country, countries.Type())

	all, err := countries.All()
	require.NoError(t, err)
	assert.Equal(t, testutil.Countries(), all)

	english, err := countries.Where(model.Conditions{"language": "English"})
	require.NoError(t, err)
	require.Len(t, english, 2)
	assert.Equal(t, "Canada", english[1].Name)

	mx, ok, err := countries.FindBy(model.Conditions{"language": "Spanish"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Mexico", mx.Name)

	_, ok, err = countries.FindBy(model.Conditions{"language": "Greek"})
	require.NoError(t, err)
	assert.False(t, ok)

	us, err := countries.Find("US")
	require.NoError(t, err)
	assert.Equal(t, "United States", us.Name)

	_, err = countries.Find("GR")
	assert.True(t, model.IsNotFound(err))

	_, err = countries.Where()
	assert.True(t, model.IsInvalidUsage(err))
}

func TestTyped_NewUsesBoundType(t *testing.T) {
	thing := model.NewType("Thing")
	r, err := model.Bound[testutil.Thing](thing).New(testutil.Thing{ID: 7, Name: "Seven"})
	require.NoError(t, err)

	assert.Same(t, thing, r.Type())
	assert.Equal(t, value.Int(7), r.PrimaryKey())
}
