package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/amoylab/tenantly/internal/common/cnst"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var embedded embed.FS

var (
	translatorMu sync.RWMutex
	translator   *I18n
	defaultLang  = cnst.LangEN

	supported = []language.Tag{language.English, language.Chinese}
	matcher   = language.NewMatcher(supported)
)

// SetDefaultLanguage sets the language used when a request expresses no preference
func SetDefaultLanguage(lang string) {
	translatorMu.Lock()
	defer translatorMu.Unlock()
	defaultLang = normalizeLang(lang)
}

// InitTranslator builds the global translator from the embedded bundles and,
// when overrideDir is set, the TOML files found there.
func InitTranslator(overrideDir string) error {
	t := NewI18n(language.English)
	if err := t.LoadEmbedded(); err != nil {
		return err
	}
	if overrideDir != "" {
		if err := t.LoadTranslations(overrideDir); err != nil {
			return err
		}
	}

	translatorMu.Lock()
	translator = t
	translatorMu.Unlock()
	return nil
}

// GetTranslator returns the global translator, initializing it from the
// embedded bundles on first use.
func GetTranslator() *I18n {
	translatorMu.RLock()
	t := translator
	translatorMu.RUnlock()
	if t != nil {
		return t
	}
	_ = InitTranslator("")
	translatorMu.RLock()
	defer translatorMu.RUnlock()
	return translator
}

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewI18n creates a new I18n instance with the specified default language
func NewI18n(defaultLang language.Tag) *I18n {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
	}
}

// LoadEmbedded loads the translations compiled into the binary
func (i *I18n) LoadEmbedded() error {
	return i.loadFS(embedded, "translations")
}

// LoadTranslations loads translation files from the specified directory.
// Messages found there replace the embedded ones with the same id.
func (i *I18n) LoadTranslations(translationsDir string) error {
	if _, err := os.Stat(translationsDir); err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}
	return i.loadFS(os.DirFS(translationsDir), ".")
}

func (i *I18n) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFileFS(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name()))); err != nil {
			return fmt.Errorf("failed to load translation %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Translate returns a localized string for the given message ID and language.
// The message ID itself is returned when no translation exists.
func (i *I18n) Translate(msgID string, lang string, templateData map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())
	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(templateData) > 0 {
		lc.TemplateData = templateData
	}
	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}
	return msg
}

// LanguageFromRequest picks the response language from X-Lang, then Accept-Language
func LanguageFromRequest(r *http.Request) string {
	if r == nil {
		return currentDefaultLang()
	}
	if lang := r.Header.Get(cnst.XLang); lang != "" {
		return normalizeLang(lang)
	}
	if accept := r.Header.Get(cnst.AcceptLanguage); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				base, _ := supported[idx].Base()
				return base.String()
			}
		}
	}
	return currentDefaultLang()
}

func currentDefaultLang() string {
	translatorMu.RLock()
	defer translatorMu.RUnlock()
	return defaultLang
}

// normalizeLang reduces a tag to a supported base language
func normalizeLang(lang string) string {
	code := strings.ToLower(strings.TrimSpace(strings.Split(lang, "-")[0]))
	switch code {
	case cnst.LangEN, cnst.LangZH:
		return code
	default:
		return cnst.LangEN
	}
}
