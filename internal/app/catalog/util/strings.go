package util

import "strings"

// Capitalize нормализует имя для хранения: каждое слово с заглавной буквы,
// остальные буквы строчные, пустые токены отбрасываются
// Это политика отображения, не правило валидации; применяется одинаково
// на insert и update для категорий и товаров
func Capitalize(input string) string {
	if strings.TrimSpace(input) == "" {
		return input
	}

	words := strings.Split(input, " ")
	result := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		capitalized := strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
		result = append(result, capitalized)
	}

	return strings.Join(result, " ")
}
