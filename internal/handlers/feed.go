package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"citylink/internal/services"
)

type FeedHandler struct {
	feed *services.FeedService
}

func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// List 信息流列表
func (h *FeedHandler) List(c *gin.Context) {
	items, err := h.feed.ListFeed(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Detail 单条内容
func (h *FeedHandler) Detail(c *gin.Context) {
	item, err := h.feed.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create 发布内容
func (h *FeedHandler) Create(c *gin.Context) {
	var req services.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.feed.CreateItem(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type reactRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

// React 点赞/表态（再点一次取消，换类型则切换）
func (h *FeedHandler) React(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.feed.ToggleReaction(c.Request.Context(), c.Param("id"), req.UserID, req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type votePollRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	OptionID string `json:"option_id" binding:"required"`
}

// VotePoll 投票
func (h *FeedHandler) VotePoll(c *gin.Context) {
	var req votePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.feed.VotePoll(c.Request.Context(), c.Param("id"), req.UserID, req.OptionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type voteSurveyRequest struct {
	UserID    string   `json:"user_id" binding:"required"`
	OptionIDs []string `json:"option_ids"`
}

// VoteSurvey 提交问卷答案
func (h *FeedHandler) VoteSurvey(c *gin.Context) {
	var req voteSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.feed.VoteSurvey(c.Request.Context(), c.Param("id"), req.UserID, req.OptionIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// View 浏览量 +1
func (h *FeedHandler) View(c *gin.Context) {
	if err := h.feed.IncrementView(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
