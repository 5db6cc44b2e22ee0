package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Excerpt 提取 HTML 的纯文本并截取前 maxWords 个词，超出时追加省略号
func Excerpt(htmlStr string, maxWords int) string {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	words := strings.Fields(doc.Text())
	if maxWords <= 0 || len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "…"
}
