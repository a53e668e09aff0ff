package voice

const DefaultLocale = "en-US"

var recognizerLocales = map[string]string{
	"en": "en-US",
	"hi": "hi-IN",
	"mr": "mr-IN",
	"gu": "gu-IN",
	"ta": "ta-IN",
	"te": "te-IN",
	"kn": "kn-IN",
	"ml": "ml-IN",
	"bn": "bn-IN",
}

// LocaleFor maps a UI language code to the recognizer and speech locale.
func LocaleFor(lang string) string {
	if l, ok := recognizerLocales[lang]; ok {
		return l
	}
	return DefaultLocale
}
