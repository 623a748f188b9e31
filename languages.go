package gotalign

import "strings"

// LanguageNames maps locale codes to human-readable names for prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"de_DE": "German (Germany)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
	"cs_CZ": "Czech (Czech Republic)",
	"et_EE": "Estonian (Estonia)",
	"is_IS": "Icelandic (Iceland)",
	"ko_KR": "Korean (South Korea)",
	"nl_NL": "Dutch (Netherlands)",
	"nb_NO": "Norwegian Bokmål (Norway)",
	"pl_PL": "Polish (Poland)",
	"ru_RU": "Russian (Russia)",
	"uk_UA": "Ukrainian (Ukraine)",
	"bg_BG": "Bulgarian (Bulgaria)",
}

// ShortCodeToLocale maps short language codes to full locale codes.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"de": "de_DE",
	"es": "es_ES",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"pt": "pt_BR",
	"zh": "zh_CN",
	"cs": "cs_CZ",
	"et": "et_EE",
	"is": "is_IS",
	"ko": "ko_KR",
	"nl": "nl_NL",
	"pl": "pl_PL",
	"ru": "ru_RU",
	"uk": "uk_UA",
	"bg": "bg_BG",
}

// styleDescriptions is the register instruction for each style.
var styleDescriptions = map[TranslationStyle]string{
	StyleFormal:    "Use formal, professional language with polite forms of address.",
	StyleNeutral:   "Use a neutral, professional tone.",
	StyleCasual:    "Use casual, conversational language as in a chat between friends.",
	StyleTechnical: "Use precise technical terminology and keep sentence structure close to the source.",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	langCode = NormalizeLocale(langCode)
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}
	// Try expanding short code
	if locale, ok := ShortCodeToLocale[strings.ToLower(langCode)]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// GetStyleDescription returns the prompt instruction for style, defaulting to neutral.
func GetStyleDescription(style TranslationStyle) string {
	if desc, ok := styleDescriptions[style]; ok {
		return desc
	}
	return styleDescriptions[StyleNeutral]
}

// NormalizeLocale converts a language code to the standard format (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}
