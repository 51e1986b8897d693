package theme

import (
	"testing"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Defaults(t *testing.T) {
	r, err := NewRenderer(config.ThemeConfig{})
	require.NoError(t, err)

	css, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, ":root{--color-primary:#2d6cdf;--color-bg:#ffffff;--color-text:#111111;}", string(css))
}

func TestRender_Tenant(t *testing.T) {
	r, err := NewRenderer(config.ThemeConfig{Primary: "#000000"})
	require.NoError(t, err)
	assert.Equal(t, "#000000", r.Defaults().Primary)

	acme := &database.Tenant{Theme: database.Theme{Primary: "#ff0000", Background: "#101010", Text: "#fafafa"}}
	css, err := r.Render(acme)
	require.NoError(t, err)
	assert.Equal(t, ":root{--color-primary:#ff0000;--color-bg:#101010;--color-text:#fafafa;}", string(css))

	partial := &database.Tenant{Theme: database.Theme{Background: "#222222"}}
	css, err = r.Render(partial)
	require.NoError(t, err)
	assert.Equal(t, ":root{--color-primary:#000000;--color-bg:#222222;--color-text:#111111;}", string(css))
}

func TestRender_Sanitizes(t *testing.T) {
	r, err := NewRenderer(config.ThemeConfig{})
	require.NoError(t, err)

	evil := &database.Tenant{Theme: database.Theme{Primary: "red;}</style><script>", Text: ";;"}}
	css, err := r.Render(evil)
	require.NoError(t, err)
	assert.Equal(t, ":root{--color-primary:red/stylescript;--color-bg:#ffffff;--color-text:#111111;}", string(css))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "#abc", Sanitize("  #abc\n"))
	assert.Equal(t, "rgb(1, 2, 3)", Sanitize("rgb(1, 2, 3)"))
	assert.Equal(t, "", Sanitize("{};<>"))
}
