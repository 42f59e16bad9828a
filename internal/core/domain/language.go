package domain

// Language is the requested answer language for one question.
// Anything outside the recognized set behaves like LanguageAuto.
type Language string

const (
	LanguageAuto     Language = "Auto"
	LanguageEnglish  Language = "English"
	LanguageRussian  Language = "Russian"
	LanguageKazakh   Language = "Kazakh"
	LanguageFrench   Language = "French"
	LanguageGerman   Language = "German"
	LanguageSpanish  Language = "Spanish"
	LanguageChinese  Language = "Chinese (Simplified)"
	LanguageJapanese Language = "Japanese"
)

// Recognized reports whether l names a language with a strict
// answer-only-in-this-language instruction.
func (l Language) Recognized() bool {
	switch l {
	case LanguageEnglish, LanguageRussian, LanguageKazakh, LanguageFrench,
		LanguageGerman, LanguageSpanish, LanguageChinese, LanguageJapanese:
		return true
	}
	return false
}
