package models

import "path/filepath"

// Language detection by extension
var LanguageByExtension = map[string]string{
	".go":   "go",
	".py":   "python",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".java": "java",
	".kt":   "kotlin",
	".kts":  "kotlin",
	".cs":   "csharp",
	".php":  "php",
}

func DetectLanguage(path string) string {
	return LanguageByExtension[filepath.Ext(path)]
}
