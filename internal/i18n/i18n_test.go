package i18n

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestEmbeddedTranslations(t *testing.T) {
	i := NewI18n(language.English)
	require.NoError(t, i.LoadEmbedded())

	assert.Equal(t, "Tenant required", i.Translate("ErrorTenantRequired", "en", nil))
	assert.Equal(t, "需要指定租户", i.Translate("ErrorTenantRequired", "zh", nil))
	assert.Equal(t, `Tenant not found: "acme"`, i.Translate("ErrorTenantNotFound", "en", map[string]any{"Slug": "acme"}))
	// unknown language falls back to the bundle default
	assert.Equal(t, "Tenant required", i.Translate("ErrorTenantRequired", "fr", nil))
	// unknown ids come back unchanged
	assert.Equal(t, "NoSuchMessage", i.Translate("NoSuchMessage", "en", nil))
}

func TestLoadTranslations_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.toml"), []byte(`ErrorTenantRequired = "Pick a tenant"`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	i := NewI18n(language.English)
	require.NoError(t, i.LoadEmbedded())
	require.NoError(t, i.LoadTranslations(dir))
	assert.Equal(t, "Pick a tenant", i.Translate("ErrorTenantRequired", "en", nil))
	assert.Equal(t, "Invalid credentials", i.Translate("ErrorInvalidCredentials", "en", nil))
}

func TestLoadTranslations_MissingDir(t *testing.T) {
	i := NewI18n(language.English)
	assert.Error(t, i.LoadTranslations(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, InitTranslator(filepath.Join(t.TempDir(), "missing")))
}

func TestLanguageFromRequest(t *testing.T) {
	cases := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"none", nil, "en"},
		{"x-lang", map[string]string{"X-Lang": "zh-CN"}, "zh"},
		{"x-lang wins", map[string]string{"X-Lang": "en", "Accept-Language": "zh"}, "en"},
		{"accept-language", map[string]string{"Accept-Language": "fr;q=0.9, zh-Hans;q=0.8"}, "zh"},
		{"unsupported", map[string]string{"Accept-Language": "fr"}, "en"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, LanguageFromRequest(r))
		})
	}
	assert.Equal(t, "en", LanguageFromRequest(nil))
}

func TestSetDefaultLanguage(t *testing.T) {
	t.Cleanup(func() { SetDefaultLanguage("en") })
	SetDefaultLanguage("ZH")
	assert.Equal(t, "zh", currentDefaultLang())
	assert.Equal(t, "需要指定租户", ErrTenantRequired.Error())
}
