package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"en", "hi"}, c.Languages())
	assert.True(t, c.Has(DefaultLanguage))
	assert.Equal(t, "Failed to start tracking.", c.Translate("en", "failed_start"))
}

func TestTranslateFallsBackToKey(t *testing.T) {
	c := Default()

	assert.Equal(t, "no_such_key", c.Translate("en", "no_such_key"))
	assert.Equal(t, "title", c.Translate("xx", "title"))
}

func TestLanguagesShareKeys(t *testing.T) {
	c := Default()
	en := c.Table("en")
	require.NotEmpty(t, en)

	for _, lang := range c.Languages() {
		table := c.Table(lang)
		for key := range en {
			assert.Contains(t, table, key, "language %s", lang)
		}
	}
}

func TestUsedKeysPresent(t *testing.T) {
	c := Default()
	keys := []string{
		"title", "signup", "login", "logout", "fill_fields", "account_exists",
		"invalid_credentials", "turn_on", "turn_off", "tracking_is_on",
		"tracking_is_off", "failed_start", "failed_stop", "tracking_status",
		"unknown_status", "iris_tracking", "language",
	}
	for _, key := range keys {
		assert.NotEqual(t, key, c.Translate("en", key), "missing %s", key)
	}
}

func TestTableIsCopy(t *testing.T) {
	c := Default()
	table := c.Table("en")
	table["title"] = "changed"

	assert.NotEqual(t, "changed", c.Translate("en", "title"))
	assert.Nil(t, c.Table("xx"))
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("fr:\n  title: Contrôle\n"))
	require.NoError(t, err)
	assert.Equal(t, "Contrôle", c.Translate("fr", "title"))

	_, err = Parse([]byte("{}"))
	assert.Error(t, err)

	_, err = Parse([]byte("en: [unclosed"))
	assert.Error(t, err)
}
