package handlers

import (
	"errors"
	"net/http"

	"kindtrail/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 盗链提醒 SVG 图片
const hotlinkSVG = `<svg width="200" height="200" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#f8f9fa"/>
  <text x="50%" y="50%" font-family="Arial" font-size="14" fill="#6c757d" text-anchor="middle">
    Kindness Trail images only
  </text>
</svg>`

// ImageHandler 故事配图上传与访问
type ImageHandler struct {
	images *services.ImageStore
}

func NewImageHandler(images *services.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload 处理图片上传请求 (POST /upload)
func (h *ImageHandler) Upload(c *gin.Context) {
	name, err := saveUpload(c, h.images, "image")
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "error": ErrorMessage(err)})
		return
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ErrorMessage(services.ErrInvalidImage)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": "/img/" + name, "name": name})
}

// Serve 返回本地图片 (GET /img/:name)，跨站嵌入时返回提醒图
func (h *ImageHandler) Serve(c *gin.Context) {
	path, ok := h.images.Path(c.Param("name"))
	if !ok {
		c.String(http.StatusNotFound, "image not found")
		return
	}

	if !isAllowedRequest(c) {
		c.Header("Content-Type", "image/svg+xml")
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.String(http.StatusOK, hotlinkSVG)
		return
	}

	c.Header("Cache-Control", "public, max-age=604800")
	c.Header("Vary", "Sec-Fetch-Site, Sec-Fetch-Mode")
	c.File(path)
}

// saveUpload stores the multipart file under field. An absent file yields
// an empty name and no error.
func saveUpload(c *gin.Context, images *services.ImageStore, field string) (string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", services.ErrInvalidImage
	}
	defer file.Close()

	name, err := images.Save(file, header)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidImage) {
			logrus.WithError(err).Error("Save uploaded image failed")
			return "", services.ErrPersistence
		}
		return "", err
	}
	return name, nil
}

// isAllowedRequest 使用 Sec-Fetch-* 头部检测是否为合法请求
func isAllowedRequest(c *gin.Context) bool {
	switch c.GetHeader("Sec-Fetch-Site") {
	case "", "same-origin", "same-site", "none":
		return true
	}
	// 允许在新标签页直接打开图片
	return c.GetHeader("Sec-Fetch-Mode") == "navigate"
}
