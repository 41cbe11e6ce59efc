package domain

// Language identifies a supported source language
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangCpp        Language = "cpp"
	LangCSharp     Language = "csharp"
)

// SupportedLanguages returns all languages the analyzers handle, in a
// stable order suitable for display.
func SupportedLanguages() []Language {
	return []Language{
		LangPython,
		LangJavaScript,
		LangTypeScript,
		LangJava,
		LangGo,
		LangRust,
		LangCpp,
		LangCSharp,
	}
}

// IsSupportedLanguage reports whether tag names a known language
func IsSupportedLanguage(tag Language) bool {
	switch tag {
	case LangPython, LangJavaScript, LangTypeScript, LangJava,
		LangGo, LangRust, LangCpp, LangCSharp:
		return true
	}
	return false
}
