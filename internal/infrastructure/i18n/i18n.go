// Package i18n holds the user-facing message catalog of the client.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyCheckinTooFar         = "checkin.too_far"
	KeyCheckinGenericFailure = "checkin.generic_failure"
	KeyLocationPermission    = "location.permission_required"
	KeyLocationUnavailable   = "location.unavailable"
	KeyCheckinSuccess        = "checkin.success"
	KeyNoPendingCheckin      = "checkin.no_pending"
	KeyAcademyRequired       = "checkin.academy_required"
)

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var entries = map[language.Tag]map[string]string{
	language.English: {
		KeyCheckinTooFar:         "You need to be closer to the academy to check in.",
		KeyCheckinGenericFailure: "Could not validate your location.",
		KeyLocationPermission:    "Location permission is required to validate your check-in.",
		KeyLocationUnavailable:   "Could not read your current location.",
		KeyCheckinSuccess:        "Check-in confirmed. Have a great workout!",
		KeyNoPendingCheckin:      "You have no pending check-in.",
		KeyAcademyRequired:       "Choose an academy before reserving a check-in.",
	},
	language.BrazilianPortuguese: {
		KeyCheckinTooFar:         "Você precisa estar mais próximo da academia para fazer check-in.",
		KeyCheckinGenericFailure: "Não foi possível validar sua localização.",
		KeyLocationPermission:    "Precisamos da sua localização para validar o check-in.",
		KeyLocationUnavailable:   "Não foi possível obter sua localização atual.",
		KeyCheckinSuccess:        "Check-in confirmado. Bom treino!",
		KeyNoPendingCheckin:      "Você não tem check-in pendente.",
		KeyAcademyRequired:       "Escolha uma academia antes de reservar o check-in.",
	},
}

// Translator resolves message keys for one locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for locale (BCP 47, e.g. "pt-BR"). Unknown
// locales fall back to Brazilian Portuguese.
func New(locale string) *Translator {
	b := catalog.NewBuilder(catalog.Fallback(language.BrazilianPortuguese))
	for tag, msgs := range entries {
		for key, msg := range msgs {
			// entries are static; SetString only fails on malformed tags
			_ = b.SetString(tag, key, msg)
		}
	}

	tag := Match(locale)
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Match picks the closest supported language for locale.
func Match(locale string) language.Tag {
	requested, err := language.Parse(locale)
	if err != nil {
		return supported[0]
	}
	_, idx, conf := language.NewMatcher(supported).Match(requested)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// Language returns the resolved language tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T returns the message for key, or the key itself when it is unknown.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

func (t *Translator) CheckinTooFar() string         { return t.T(KeyCheckinTooFar) }
func (t *Translator) CheckinGenericFailure() string { return t.T(KeyCheckinGenericFailure) }
func (t *Translator) LocationPermission() string    { return t.T(KeyLocationPermission) }
func (t *Translator) LocationUnavailable() string   { return t.T(KeyLocationUnavailable) }
