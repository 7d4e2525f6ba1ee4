package mark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderTag(tag string) RenderRule {
	return func(attrs Attrs) Element {
		return Element{Tag: tag, Attrs: attrs, Hole: true}
	}
}

func TestRegistry_Register_And_Get(t *testing.T) {
	reg := NewRegistry()
	typ, err := reg.Register(Spec{Name: "bold", Render: renderTag("strong")})
	require.NoError(t, err)
	assert.Equal(t, "bold", typ.Name())

	got, ok := reg.Get("bold")
	assert.True(t, ok)
	assert.Same(t, typ, got)

	_, ok = reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_Types_RegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"strike", "bold", "italic"} {
		_, err := reg.Register(Spec{Name: name, Render: renderTag("span")})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"strike", "bold", "italic"}, reg.Names())
	types := reg.Types()
	require.Len(t, types, 3)
	assert.Equal(t, "italic", types[2].Name())
}

func TestRegistry_Register_ReplaceKeepsPosition(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register(Spec{Name: "bold", Render: renderTag("strong")})
	require.NoError(t, err)
	_, err = reg.Register(Spec{Name: "italic", Render: renderTag("em")})
	require.NoError(t, err)
	_, err = reg.Register(Spec{Name: "bold", Render: renderTag("b")})
	require.NoError(t, err)

	assert.Equal(t, []string{"bold", "italic"}, reg.Names())
	assert.Equal(t, 2, reg.Len())

	typ, _ := reg.Get("bold")
	assert.Equal(t, "b", typ.Render(nil).Tag)
}

func TestRegistry_Register_Invalid(t *testing.T) {
	input := MustPattern("in", PatternInput, `(\*\*([^*]+)\*\*)$`)
	paste := MustPattern("paste", PatternPaste, `(\*\*([^*]+)\*\*)`)

	tests := []struct {
		name string
		spec Spec
	}{
		{"empty name", Spec{Render: renderTag("strong")}},
		{"no render", Spec{Name: "bold"}},
		{"rule without selector", Spec{
			Name: "bold", Render: renderTag("strong"),
			ParseRules: []ParseRule{{}},
		}},
		{"rule with both selectors", Spec{
			Name: "bold", Render: renderTag("strong"),
			ParseRules: []ParseRule{{Tag: "b", Style: "font-weight"}},
		}},
		{"paste pattern in input list", Spec{
			Name: "bold", Render: renderTag("strong"),
			InputPatterns: []Pattern{paste},
		}},
		{"input pattern in paste list", Spec{
			Name: "bold", Render: renderTag("strong"),
			PastePatterns: []Pattern{input},
		}},
		{"pattern without expression", Spec{
			Name: "bold", Render: renderTag("strong"),
			InputPatterns: []Pattern{{Name: "broken", Kind: PatternInput}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := NewRegistry()
			_, err := reg.Register(tt.spec)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidSpec)
			assert.Equal(t, 0, reg.Len())
		})
	}
}

func TestType_Create(t *testing.T) {
	reg := NewRegistry()
	typ, err := reg.Register(Spec{
		Name:   "link",
		Render: renderTag("a"),
		Attrs: map[string]AttributeSpec{
			"href":   {Required: true},
			"target": {Default: "_blank"},
		},
	})
	require.NoError(t, err)

	m, err := typ.Create(Attrs{"href": "/docs"})
	require.NoError(t, err)
	assert.Equal(t, Attrs{"href": "/docs", "target": "_blank"}, m.Attrs)

	_, err = typ.Create(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "href")

	_, err = typ.Create(Attrs{"href": "/", "rel": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown attribute")

	assert.Equal(t, Attrs{"target": "_blank"}, typ.Default().Attrs)
}

func TestType_Create_NoSchema(t *testing.T) {
	reg := NewRegistry()
	typ, err := reg.Register(Spec{Name: "bold", Render: renderTag("strong")})
	require.NoError(t, err)

	m, err := typ.Create(nil)
	require.NoError(t, err)
	assert.True(t, m.Eq(typ.Default()))
	assert.True(t, m.Eq(New("bold", nil)))
}
