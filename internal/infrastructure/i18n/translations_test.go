package i18n

import (
	"testing"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"msgstore/internal/domain/entities"
)

func TestTranslator_CLIMessages(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, "Catalog messages.de not found.",
		tr.T("en", "cli.not_found", map[string]any{"Variant": "messages.de"}))
	assert.Equal(t, "Catalogue messages.de introuvable.",
		tr.T("fr", "cli.not_found", map[string]any{"Variant": "messages.de"}))
	// unknown locale falls back to the default language
	assert.Equal(t, "No catalogs.", tr.T("ja", "cli.no_catalogs", nil))
	assert.Equal(t, "cli.unknown", tr.T("en", "cli.unknown", nil))
	assert.Equal(t, "", tr.T("en", "", nil))
}

func TestTranslator_InvalidDefaultLocale(t *testing.T) {
	tr := NewTranslator("??")
	assert.Equal(t, language.English, tr.defaultLanguage)
}

func catalogTable() *entities.Table {
	table := entities.NewTable()
	table.Add(entities.TableEntry{Source: "Hello", Target: "Bonjour", ID: 1})
	table.Add(entities.TableEntry{Source: "Pending", ID: 2})
	table.Add(entities.TableEntry{Source: "Hello", Target: "Salut", ID: 3})
	return table
}

func TestTranslator_AddTable(t *testing.T) {
	tr := NewTranslator("en")
	require.NoError(t, tr.AddTable("fr_FR", catalogTable()))

	assert.Equal(t, "Bonjour", tr.T("fr-FR", "Hello", nil))
	assert.Equal(t, "Pending", tr.T("fr-FR", "Pending", nil))
}

func TestTranslator_AddTableBadLocale(t *testing.T) {
	tr := NewTranslator("en")
	assert.Error(t, tr.AddTable("not a locale!", catalogTable()))
}

func TestMarshalMessageFile(t *testing.T) {
	data, err := MarshalMessageFile(catalogTable())
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]string{"Hello": "Bonjour"}, decoded)

	bundle := goi18n.NewBundle(language.French)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	_, err = bundle.ParseMessageFileBytes(data, "messages.fr.toml")
	require.NoError(t, err)
	msg, err := goi18n.NewLocalizer(bundle, "fr").Localize(&goi18n.LocalizeConfig{MessageID: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", msg)
}
