package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"kindtrail/internal/middleware"
	"kindtrail/internal/models"
	"kindtrail/internal/services"
	"kindtrail/internal/utils"

	"github.com/gin-gonic/gin"
)

const excerptWords = 60

type StoryHandler struct {
	stories *services.StoryService
	images  *services.ImageStore
}

func NewStoryHandler(stories *services.StoryService, images *services.ImageStore) *StoryHandler {
	return &StoryHandler{stories: stories, images: images}
}

// storyView 列表和详情页展示用
type storyView struct {
	models.Story
	HTML    template.HTML
	Excerpt string
}

func toStoryView(s models.Story) storyView {
	html := utils.RenderMarkdown(s.Body)
	return storyView{
		Story:   s,
		HTML:    html,
		Excerpt: utils.Excerpt(string(html), excerptWords),
	}
}

func (h *StoryHandler) List(c *gin.Context) {
	stories := h.stories.ListPublished(c.Request.Context())
	views := make([]storyView, 0, len(stories))
	for _, s := range stories {
		views = append(views, toStoryView(s))
	}
	Render(c, http.StatusOK, "stories.html", gin.H{"Stories": views})
}

func (h *StoryHandler) Detail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, ErrorMessage(services.ErrStoryNotFound))
		return
	}

	story, comments, err := h.stories.StoryDetail(c.Request.Context(), id)
	if err != nil {
		RenderError(c, statusFor(err), ErrorMessage(err))
		return
	}

	Render(c, http.StatusOK, "story.html", gin.H{
		"Story":    toStoryView(*story),
		"Comments": comments,
	})
}

// ShowSubmit renders the form. With ?id= it prefills the user's own story.
func (h *StoryHandler) ShowSubmit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	data := gin.H{}

	if raw := c.Query("id"); raw != "" {
		id, ok := utils.ParseID(raw)
		if !ok {
			RenderError(c, http.StatusNotFound, ErrorMessage(services.ErrStoryNotFound))
			return
		}
		story, err := h.stories.OwnStory(c.Request.Context(), user.Username, id)
		if err != nil {
			RenderError(c, statusFor(err), ErrorMessage(err))
			return
		}
		data["Story"] = story
	}

	Render(c, http.StatusOK, "submit.html", data)
}

func optionalForm(c *gin.Context, key string) *string {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return nil
	}
	return &v
}

func (h *StoryHandler) Submit(c *gin.Context) {
	user := middleware.CurrentUser(c)

	req := services.SubmitRequest{
		Username:  user.Username,
		Title:     c.PostForm("title"),
		Body:      c.PostForm("story"),
		ImagePath: optionalForm(c, "image"),
		Location:  optionalForm(c, "location"),
		Draft:     c.PostForm("draft") != "",
	}
	if raw := c.PostForm("story_id"); raw != "" {
		id, ok := utils.ParseID(raw)
		if !ok {
			RenderError(c, http.StatusNotFound, ErrorMessage(services.ErrStoryNotFound))
			return
		}
		req.StoryID = id
	}

	// 上传的图片优先于表单里的图片名
	name, err := saveUpload(c, h.images, "image_file")
	if err != nil {
		Render(c, statusFor(err), "submit.html", gin.H{"Error": ErrorMessage(err), "Form": req})
		return
	}
	if name != "" {
		req.ImagePath = &name
	}

	res, err := h.stories.Submit(c.Request.Context(), req)
	storySubmissionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		// 未保存的故事不保留刚上传的图片
		if name != "" {
			h.images.Remove(name)
			req.ImagePath = optionalForm(c, "image")
		}
		Render(c, statusFor(err), "submit.html", gin.H{
			"Error": ErrorMessage(err),
			"Form":  req,
		})
		return
	}

	if res.Draft {
		redirectWithFlash(c, "/drafts", submitMessage(true))
		return
	}
	redirectWithFlash(c, "/stories", submitMessage(false))
}

func (h *StoryHandler) Cheer(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, ErrorMessage(services.ErrStoryNotFound))
		return
	}

	if err := h.stories.Cheer(c.Request.Context(), user.Username, id); err != nil {
		redirectWithFlash(c, "/stories", ErrorMessage(err))
		return
	}
	cheersTotal.Inc()
	redirectWithFlash(c, "/stories", cheerMessage(id))
}

// Comment accepts anonymous comments.
func (h *StoryHandler) Comment(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, ErrorMessage(services.ErrStoryNotFound))
		return
	}

	username := ""
	if user := middleware.CurrentUser(c); user != nil {
		username = user.Username
	}

	target := "/stories/" + strconv.FormatUint(uint64(id), 10)
	if _, err := h.stories.AddComment(c.Request.Context(), id, username, c.PostForm("comment")); err != nil {
		if services.KindOf(err) == services.KindStoryNotFound {
			RenderError(c, http.StatusNotFound, ErrorMessage(err))
			return
		}
		redirectWithFlash(c, target, ErrorMessage(err))
		return
	}
	redirectWithFlash(c, target, commentMessage())
}

func (h *StoryHandler) Drafts(c *gin.Context) {
	user := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "drafts.html", gin.H{
		"Drafts": h.stories.ListDrafts(c.Request.Context(), user.Username),
	})
}
