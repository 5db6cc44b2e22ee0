package router

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"kindtrail/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// Views are rendered by name; each one is assembled with the shared layouts.
var views = []string{
	"home.html",
	"stories.html",
	"story.html",
	"submit.html",
	"drafts.html",
	"archive.html",
	"winner.html",
	"leaderboard.html",
	"map.html",
	"profile.html",
	"success.html",
	"error.html",
}

// FuncMap holds the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": timeAgo,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"markdown": utils.RenderMarkdown,
		"level": func(cheers int64) string {
			name, icon := utils.GetKindnessLevel(int(cheers))
			return icon + " " + name
		},
	}
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%dd ago", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%dmo ago", seconds/2592000)
	}
	return fmt.Sprintf("%dy ago", seconds/31536000)
}

// LoadTemplates builds the renderer from templatesDir/layouts and
// templatesDir/views.
func LoadTemplates(templatesDir string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts found in %s", templatesDir)
	}

	funcMap := FuncMap()
	for _, view := range views {
		files := append(append([]string{}, layouts...), filepath.Join(templatesDir, "views", view))
		r.AddFromFilesFuncs(view, funcMap, files...)
	}
	return r, nil
}
