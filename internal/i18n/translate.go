// Package i18n provides translated UI strings backed by embedded YAML tables.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// supported lists available tables; the first entry is the fallback.
var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

// Translator resolves keys for one locale.
type Translator struct {
	tag      language.Tag
	table    map[string]string
	fallback map[string]string
}

// New returns a Translator for locale (e.g. "ja", "ja_JP.UTF-8", "en-US").
// Unknown or empty locales resolve to English.
func New(locale string) (*Translator, error) {
	fallback, err := loadTable(language.English)
	if err != nil {
		return nil, err
	}

	tag := Match(locale)
	table := fallback
	if tag != language.English {
		table, err = loadTable(tag)
		if err != nil {
			return nil, err
		}
	}

	return &Translator{tag: tag, table: table, fallback: fallback}, nil
}

// Match maps a locale string to the closest supported tag.
func Match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexByte(locale, '.'); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.English
	}

	parsed, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// Tag returns the resolved locale.
func (t *Translator) Tag() language.Tag { return t.tag }

// T returns the translation for k, falling back to English and then to the
// key itself.
func (t *Translator) T(k Key) string {
	if t == nil {
		return string(k)
	}
	if s, ok := t.table[string(k)]; ok && s != "" {
		return s
	}
	if s, ok := t.fallback[string(k)]; ok && s != "" {
		return s
	}
	return string(k)
}

// Tf formats the translation for k with args.
func (t *Translator) Tf(k Key, args ...any) string {
	return fmt.Sprintf(t.T(k), args...)
}

func loadTable(tag language.Tag) (map[string]string, error) {
	base, _ := tag.Base()
	data, err := localeFS.ReadFile(path.Join("locales", base.String()+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("i18n: no table for %s: %w", tag, err)
	}
	table := make(map[string]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("i18n: parse %s: %w", tag, err)
	}
	return table, nil
}
