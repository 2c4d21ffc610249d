package prompt

import "strings"

// FallbackLocale is the key of the vocabulary used when no locale matches.
const FallbackLocale = "*"

// ConfirmChoices is the yes/no vocabulary of one locale.
type ConfirmChoices struct {
	Yes string `json:"yes"`
	No  string `json:"no"`

	// InlineOr joins the choices in inline rendering: "(1) Yes or (2) No".
	InlineOr string `json:"inline_or"`

	// IncludeNumbers prefixes choices with ordinals and accepts "1"/"2" as replies.
	IncludeNumbers bool `json:"include_numbers"`
}

// DefaultChoices returns the built-in vocabularies, keyed by lower-cased
// locale code, plus the FallbackLocale entry.
func DefaultChoices() map[string]ConfirmChoices {
	return map[string]ConfirmChoices{
		FallbackLocale: {Yes: "Yes", No: "No", InlineOr: " or ", IncludeNumbers: true},
		"en-us":        {Yes: "Yes", No: "No", InlineOr: " or ", IncludeNumbers: true},
		"es-es":        {Yes: "Sí", No: "No", InlineOr: " o ", IncludeNumbers: true},
		"pt-br":        {Yes: "Sim", No: "Não", InlineOr: " ou ", IncludeNumbers: true},
		"fr-fr":        {Yes: "Oui", No: "Non", InlineOr: " ou ", IncludeNumbers: true},
		"de-de":        {Yes: "Ja", No: "Nein", InlineOr: " oder ", IncludeNumbers: true},
		"nl-nl":        {Yes: "Ja", No: "Nee", InlineOr: " of ", IncludeNumbers: true},
		"it-it":        {Yes: "Si", No: "No", InlineOr: " o ", IncludeNumbers: true},
		"ja-jp":        {Yes: "はい", No: "いいえ", InlineOr: " または ", IncludeNumbers: true},
		"zh-cn":        {Yes: "是的", No: "不", InlineOr: " 要么 ", IncludeNumbers: true},
	}
}

// lookupChoices resolves a vocabulary: exact lower-cased locale, then FallbackLocale.
func lookupChoices(table map[string]ConfirmChoices, locale string) (ConfirmChoices, bool) {
	if c, ok := table[strings.ToLower(locale)]; ok {
		return c, true
	}
	c, ok := table[FallbackLocale]
	return c, ok
}
