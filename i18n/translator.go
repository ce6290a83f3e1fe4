package i18n

// Translator retrieves localized messages for failure codes.
// data provides optional metadata to embed in the message (for example,
// "class").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "structural_scan_failure":
			return "継承宣言が見つかりません"
		case "missing_class_declaration":
			return "クラスのドキュメントがありません"
		case "unsupported_array_type":
			return "配列要素の型を決定できません"
		case "duplicate_type_id":
			return "型IDが重複しています"
		case "unresolved_parent":
			return "親クラスが見つかりません"
		case "hierarchy_cycle":
			return "継承関係が循環しています"
		case "invalid_documentation":
			return "ドキュメントが不正です"
		case "read_failure":
			return "読み込みに失敗しました"
		case "write_failure":
			return "書き込みに失敗しました"
		}
	default: // "en"
		switch code {
		case "structural_scan_failure":
			return "no inheritance statement found"
		case "missing_class_declaration":
			return "no class documentation record"
		case "unsupported_array_type":
			return "unsupported array item type"
		case "duplicate_type_id":
			return "duplicate type id"
		case "unresolved_parent":
			return "parent class not found"
		case "hierarchy_cycle":
			return "inheritance cycle"
		case "invalid_documentation":
			return "malformed documentation"
		case "read_failure":
			return "read failed"
		case "write_failure":
			return "write failed"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
