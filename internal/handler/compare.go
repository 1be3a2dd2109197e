package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codecompare-backend/internal/model"
	"codecompare-backend/internal/service"
	"codecompare-backend/pkg/logger"
)

type CompareHandler struct {
	compareService    *service.CompareService
	transcribeService *service.TranscribeService
}

func NewCompareHandler(compareService *service.CompareService, transcribeService *service.TranscribeService) *CompareHandler {
	return &CompareHandler{
		compareService:    compareService,
		transcribeService: transcribeService,
	}
}

// Execute 单条请求的校验/执行
func (h *CompareHandler) Execute(c *gin.Context) {
	var req model.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.compareService.Execute(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ExecuteResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.ExecuteResponse{Result: result})
}

// Compare 有序批次比较，请求体是裸数组
func (h *CompareHandler) Compare(c *gin.Context) {
	var reqs []model.CodeRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.compareService.Compare(c.Request.Context(), reqs)
	if err != nil {
		// 语言白名单或模型重复校验失败，整批未调度
		c.JSON(http.StatusBadRequest, model.CompareResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.CompareResponse{Results: results})
}

// History 当前历史快照，与广播内容一致
func (h *CompareHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"history": h.compareService.History(),
	})
}

// ClearHistory 清空历史并广播空快照
func (h *CompareHandler) ClearHistory(c *gin.Context) {
	h.compareService.ClearHistory()
	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

// RecentResults 最近成功结果，仅供回查调试
func (h *CompareHandler) RecentResults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"results": h.compareService.RecentResults(),
	})
}

// Transcribe 音频上传转文本，转写由外部服务完成
func (h *CompareHandler) Transcribe(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	text, err := h.transcribeService.Transcribe(c.Request.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrTranscribeDisabled) {
			c.JSON(http.StatusServiceUnavailable, model.TranscribeResponse{Error: err.Error()})
			return
		}
		logger.Errorf("transcription failed: %v", err)
		c.JSON(http.StatusBadGateway, model.TranscribeResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.TranscribeResponse{Text: text})
}
