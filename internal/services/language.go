package services

import (
	"strings"

	"golang.org/x/text/language"
)

// languageNames maps English language names reported by providers to language codes.
// Read-only after package initialization.
var languageNames = map[string]string{
	"English":       "en",
	"Spanish":       "es",
	"French":        "fr",
	"German":        "de",
	"Italian":       "it",
	"Portuguese":    "pt",
	"Russian":       "ru",
	"Japanese":      "ja",
	"Korean":        "ko",
	"Chinese":       "zh",
	"Arabic":        "ar",
	"Hindi":         "hi",
	"Turkish":       "tr",
	"Dutch":         "nl",
	"Polish":        "pl",
	"Swedish":       "sv",
	"Norwegian":     "no",
	"Danish":        "da",
	"Finnish":       "fi",
	"Greek":         "el",
	"Hebrew":        "he",
	"Thai":          "th",
	"Vietnamese":    "vi",
	"Indonesian":    "id",
	"Malay":         "ms",
	"Filipino":      "tl",
	"Ukrainian":     "uk",
	"Romanian":      "ro",
	"Czech":         "cs",
	"Hungarian":     "hu",
	"Bulgarian":     "bg",
	"Croatian":      "hr",
	"Serbian":       "sr",
	"Slovak":        "sk",
	"Slovenian":     "sl",
	"Estonian":      "et",
	"Latvian":       "lv",
	"Lithuanian":    "lt",
	"Icelandic":     "is",
	"Maltese":       "mt",
	"Georgian":      "ka",
	"Armenian":      "hy",
	"Azerbaijani":   "az",
	"Kazakh":        "kk",
	"Kyrgyz":        "ky",
	"Uzbek":         "uz",
	"Tajik":         "tg",
	"Turkmen":       "tk",
	"Mongolian":     "mn",
	"Persian":       "fa",
	"Urdu":          "ur",
	"Bengali":       "bn",
	"Tamil":         "ta",
	"Telugu":        "te",
	"Marathi":       "mr",
	"Gujarati":      "gu",
	"Kannada":       "kn",
	"Malayalam":     "ml",
	"Punjabi":       "pa",
	"Sinhala":       "si",
	"Nepali":        "ne",
	"Burmese":       "my",
	"Khmer":         "km",
	"Lao":           "lo",
	"Tibetan":       "bo",
	"Uyghur":        "ug",
	"Kurdish":       "ku",
	"Pashto":        "ps",
	"Dari":          "prs",
	"Sindhi":        "sd",
	"Kashmiri":      "ks",
	"Dogri":         "doi",
	"Konkani":       "kok",
	"Manipuri":      "mni",
	"Bodo":          "brx",
	"Sanskrit":      "sa",
	"Santhali":      "sat",
	"Maithili":      "mai",
	"Bhojpuri":      "bho",
	"Awadhi":        "awa",
	"Chhattisgarhi": "hne",
	"Magahi":        "mag",
	"Rajasthani":    "raj",
	"Malvi":         "mup",
	"Bundeli":       "bns",
	"Bagheli":       "bfy",
	"Pahari":        "phr",
	"Kumaoni":       "kfy",
	"Garhwali":      "gbm",
	"Kangri":        "xnr",
}

// LabelToLanguageCode converts a provider language name to a language code.
// Unknown names are returned lower-cased.
func LabelToLanguageCode(name string) string {
	name = strings.TrimSpace(name)
	if code, ok := languageNames[name]; ok {
		return code
	}
	return strings.ToLower(name)
}

// NormalizeLanguageCode canonicalizes a provider language code ("EN" -> "en",
// "pt-br" -> "pt-BR", "eng" -> "en"). Unparsable codes are returned lower-cased.
func NormalizeLanguageCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil || tag == language.Und {
		return strings.ToLower(code)
	}
	return tag.String()
}

// ISO3LanguageCode returns the ISO 639-2/3 code for a language code ("en" -> "eng",
// "pt-BR" -> "por"). Unknown codes are returned unchanged.
func ISO3LanguageCode(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil || tag == language.Und {
		return code
	}
	base, _ := tag.Base()
	if iso3 := base.ISO3(); iso3 != "" {
		return iso3
	}
	return code
}
