package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hetansh2220/hoperise/internal/gateway"
)

// ContentHandler 内容上传接口：先固定到 IPFS 再把引用写进链上记录
type ContentHandler struct {
	gateway *gateway.Client
}

// NewContentHandler 创建内容上传接口
func NewContentHandler(g *gateway.Client) *ContentHandler {
	return &ContentHandler{gateway: g}
}

// PinFile 上传文件（封面图等），返回 ipfs:// 引用与解析后的访问地址
func (h *ContentHandler) PinFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "missing file field")
		return
	}

	src, err := file.Open()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	defer src.Close()

	ref, err := h.gateway.PinFile(c.Request.Context(), file.Filename, src)
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "pinned", gin.H{
		"ref": ref,
		"url": h.gateway.Resolve(ref),
	})
}

// PinText 上传文本内容（活动故事正文）
func (h *ContentHandler) PinText(c *gin.Context) {
	var req PinTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "story.txt"
	}

	ref, err := h.gateway.PinText(c.Request.Context(), req.Text, filename)
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "pinned", gin.H{
		"ref": ref,
		"url": h.gateway.Resolve(ref),
	})
}
