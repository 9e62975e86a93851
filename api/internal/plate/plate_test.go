package plate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolds(t *testing.T) {
	assert.Equal(t, "a123aa77", ToLatin("А123АА77"))
	assert.Equal(t, "xyz", ToLatin("XYZ"))
	assert.Equal(t, "ні", ToUkrainianI("НI"))
	assert.Equal(t, "А123АА77", ToCyrillic("a123aa77"))
	assert.Equal(t, "ny xxx", Lower("NY XXX"))

	for _, fold := range []func(string) string{ToLatin, ToUkrainianI, Lower} {
		for _, in := range []string{"А123АА77", "ж8028НI", "Ny XXX", "af-235-FA"} {
			once := fold(in)
			assert.Equal(t, once, fold(once), in)
		}
	}
}

func TestPattern(t *testing.T) {
	p := NewPattern(`^(\d{2})\s*([a-z]{2})$`, " ")
	groups, q, ok := p.Match("  12   ab ")
	require.True(t, ok)
	assert.Equal(t, []string{"12", "ab"}, groups)
	assert.Equal(t, "12 ab", q.String())

	_, q, ok = p.Match("12abc")
	assert.False(t, ok)
	assert.True(t, q.IsZero())
}

func TestValidatorAndPrefix(t *testing.T) {
	p := NewPattern(`^ru(\d{2,3})$`, "")
	v := WithPrefix("ru", Validator(Lower, p, func(g []string) bool {
		_, ok := RuRegions[g[0]]
		return ok
	}))

	q, ok := v("RU37")
	require.True(t, ok)
	assert.Equal(t, "ru37", q.String())

	_, ok = v("ru00")
	assert.False(t, ok)
}

func testFormat(numType, expr string) *Format {
	p := NewPattern(expr, " ")
	return &Format{
		NumType:  numType,
		Fold:     Lower,
		Validate: Validator(Lower, p, nil),
		Search:   func(context.Context, Query) (*Result, error) { return nil, nil },
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("aa", testFormat("aa-1", `^(\d{3})$`), testFormat("aa-2", `^(\d{3})([a-z])$`))
	reg.Register("bb", testFormat("bb-1", `^(\d{3})$`))

	assert.Equal(t, []string{"aa", "bb"}, reg.Countries())
	assert.Len(t, reg.ByCountry("aa"), 2)

	f, ok := reg.Lookup("bb-1")
	require.True(t, ok)
	assert.Equal(t, "bb", f.Country)

	var types []string
	for _, f := range reg.All() {
		types = append(types, f.NumType)
	}
	assert.Equal(t, []string{"aa-1", "aa-2", "bb-1"}, types)

	f, q, ok := reg.Restore("aa-2", "123x")
	require.True(t, ok)
	assert.Equal(t, "aa-2", f.NumType)
	assert.Equal(t, "123 x", q.String())

	_, _, ok = reg.Restore("aa-2", "bogus")
	assert.False(t, ok)
	_, _, ok = reg.Restore("zz", "123")
	assert.False(t, ok)
}

func TestRegistry_Panics(t *testing.T) {
	reg := NewRegistry()
	reg.Register("aa", testFormat("aa-1", `^(\d)$`))
	assert.Panics(t, func() { reg.Register("bb", testFormat("aa-1", `^(\d)$`)) })
	assert.Panics(t, func() { reg.Register("bb", &Format{NumType: "x"}) })

	listing := testFormat("bb-2", `^(\d)$`)
	listing.Mode = ModeListing
	assert.Panics(t, func() { reg.Register("bb", listing) })
}

func TestClassify(t *testing.T) {
	reg := NewRegistry()
	reg.Register("aa", testFormat("aa-1", `^(\d{3})$`), testFormat("aa-2", `^(\d{3})\s*([a-z])$`))
	reg.Register("bb", testFormat("bb-1", `^(\d{3})$`))

	assert.Empty(t, Classify(reg, "   "))
	assert.Empty(t, Classify(reg, "hello"))

	single := Classify(reg, "123  X")
	require.Len(t, single, 1)
	assert.Equal(t, "aa-2", single[0].Format.NumType)
	assert.Equal(t, "123 x", single[0].Query.String())

	many := Classify(reg, "123")
	require.Len(t, many, 2)
	assert.Equal(t, "aa-1", many[0].Format.NumType)
	assert.Equal(t, "bb-1", many[1].Format.NumType)
}

func TestResultEmpty(t *testing.T) {
	var r *Result
	assert.True(t, r.Empty())
	assert.True(t, (&Result{TotalResults: 3}).Empty())
	assert.False(t, (&Result{Records: []Record{{}}}).Empty())
}
