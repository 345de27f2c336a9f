package i18n

import (
	"embed"
	"fmt"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"msgstore/internal/domain/entities"
	"msgstore/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// Ensure Translator implements the output.T port.
var _ output.T = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator with the embedded CLI messages, using
// defaultLocale (e.g. "en") as the fallback language.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.fr.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// AddTable registers the translated entries of a loaded catalog under locale,
// keyed by source text. Untranslated entries are skipped so lookups fall back
// to the source text.
func (t *Translator) AddTable(locale string, table *entities.Table) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	var messages []*i18n.Message
	for _, source := range table.Sources() {
		entry, _ := table.First(source)
		if entry.Target == "" {
			continue
		}
		messages = append(messages, &i18n.Message{ID: source, Other: entry.Target})
	}
	if len(messages) == 0 {
		return nil
	}
	return t.bundle.AddMessages(tag, messages...)
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return msg
}

// MarshalMessageFile renders the translated entries of table as a go-i18n
// TOML message file.
func MarshalMessageFile(table *entities.Table) ([]byte, error) {
	messages := make(map[string]string)
	for _, source := range table.Sources() {
		entry, _ := table.First(source)
		if entry.Target == "" {
			continue
		}
		messages[source] = entry.Target
	}
	return toml.Marshal(messages)
}
