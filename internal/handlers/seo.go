package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"kindtrail/internal/services"
	"kindtrail/internal/utils"

	"github.com/gin-gonic/gin"
)

const feedItems = 20

type SEOHandler struct {
	stories *services.StoryService
	siteURL string
}

func NewSEOHandler(stories *services.StoryService, siteURL string) *SEOHandler {
	return &SEOHandler{stories: stories, siteURL: siteURL}
}

// RobotsTxt 返回 robots.txt 内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /submit
Disallow: /drafts
Disallow: /cheer/
Disallow: /subscribe
Disallow: /success
Disallow: /winner

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML 动态生成 sitemap.xml
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	now := time.Now().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	for _, page := range []struct {
		path     string
		freq     string
		priority string
	}{
		{"/", "daily", "1.0"},
		{"/stories", "hourly", "0.9"},
		{"/leaderboard", "daily", "0.8"},
		{"/archive", "monthly", "0.7"},
		{"/map", "daily", "0.6"},
	} {
		fmt.Fprintf(&b, "  <url>\n    <loc>%s%s</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>%s</changefreq>\n    <priority>%s</priority>\n  </url>\n",
			h.siteURL, page.path, now, page.freq, page.priority)
	}

	for _, story := range h.stories.ListPublished(c.Request.Context()) {
		fmt.Fprintf(&b, "  <url>\n    <loc>%s/stories/%d</loc>\n    <lastmod>%s</lastmod>\n  </url>\n",
			h.siteURL, story.ID, story.SubmittedAt.Format("2006-01-02"))
	}
	b.WriteString(`</urlset>`)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// RSSFeed 最新故事的 RSS 2.0 feed
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	stories := h.stories.ListPublished(c.Request.Context())
	if len(stories) > feedItems {
		stories = stories[:feedItems]
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Kindness Trail</title>
    <link>` + h.siteURL + `</link>
    <description>Short stories of kindness, cheered by the community</description>
    <language>en</language>
    <lastBuildDate>` + time.Now().Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + h.siteURL + `/feed.xml" rel="self" type="application/rss+xml"/>
`)

	for _, story := range stories {
		link := fmt.Sprintf("%s/stories/%d", h.siteURL, story.ID)
		excerpt := utils.Excerpt(string(utils.RenderMarkdown(story.Body)), excerptWords)

		b.WriteString(`    <item>
      <title>` + escapeXML(story.Title) + `</title>
      <link>` + link + `</link>
      <description>` + escapeXML(excerpt) + `</description>
      <author>` + escapeXML(story.User.Username) + `</author>
      <pubDate>` + story.SubmittedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`)
	}

	b.WriteString(`  </channel>
</rss>`)

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func escapeXML(s string) string {
	return html.EscapeString(s)
}
