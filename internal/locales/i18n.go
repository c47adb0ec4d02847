// Package locales owns the i18n bundle for all user-visible texts. Message
// files are embedded so the binary stays self-contained.
package locales

import (
	"embed"
	"encoding/json"
	"log"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

var (
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
)

// Init loads the embedded message files and sets the default language.
func Init(defaultLangCode string) {
	var err error
	defaultLanguage, err = language.Parse(defaultLangCode)
	if err != nil {
		log.Printf("WARN: failed to parse default language code %q: %v, falling back to English", defaultLangCode, err)
		defaultLanguage = language.English
	}

	bundle = i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		log.Fatalf("Failed to read embedded locales directory: %v", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			log.Printf("WARN: failed to load message file %q: %v", entry.Name(), err)
			continue
		}
		loaded++
	}
	if loaded == 0 {
		log.Fatal("No message files loaded from locales/")
	}
	log.Printf("i18n bundle initialized with %d file(s), default language %s", loaded, defaultLanguage)
}

// GetDefaultLanguageTag returns the configured default language tag.
func GetDefaultLanguageTag() language.Tag {
	if bundle == nil {
		log.Panicln("locales.Init must be called before GetDefaultLanguageTag")
	}
	return defaultLanguage
}

// NewLocalizer creates a localizer for the given language preferences
// (language codes or an Accept-Language string).
func NewLocalizer(langPrefs ...string) *i18n.Localizer {
	if bundle == nil {
		log.Panicln("locales.Init must be called before NewLocalizer")
	}
	return i18n.NewLocalizer(bundle, langPrefs...)
}

// GetMessage retrieves and formats a message by id, with optional template
// data. On a miss it falls back to English and finally to the id itself.
func GetMessage(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}) string {
	config := &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	}

	msg, err := localizer.Localize(config)
	if err == nil {
		return msg
	}
	log.Printf("ERROR: failed to localize message %q: %v", msgID, err)

	fallback := i18n.NewLocalizer(bundle, language.English.String())
	if msg, err := fallback.Localize(config); err == nil {
		return msg
	}
	return msgID
}
