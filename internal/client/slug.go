package client

import (
	"math/rand"
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^\w-]+`)

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSlug строит slug из заголовка: нижний регистр, пробелы в дефисы,
// всё кроме словесных символов и дефисов отбрасывается, длина ограничивается,
// в конец дописывается случайный суффикс против коллизий.
// Уникальность не гарантируется.
func GenerateSlug(title string, maxLength, suffixLength int) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugStrip.ReplaceAllString(slug, "")

	if len(slug) > maxLength {
		slug = slug[:maxLength]
	}

	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
	}

	return slug + "-" + string(suffix)
}

// ParseTags разбирает теги из строки с запятыми: обрезает пробелы,
// пустые сегменты отбрасывает.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
