package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/hub"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/live"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/service"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/gin-gonic/gin"
)

type handler struct {
	collab *service.CollabService
	events *hub.Hub
}

func registerRoutes(r *gin.RouterGroup, collab *service.CollabService, events *hub.Hub) {
	h := &handler{collab: collab, events: events}

	r.POST("/documents", h.createDocument)
	r.GET("/documents", h.listDocuments)
	r.GET("/documents/:id", h.getDocument)
	r.PATCH("/documents/:id", h.updateDocument)
	r.DELETE("/documents/:id", h.deleteDocument)

	r.POST("/documents/:id/join", h.joinDocument)
	r.POST("/documents/:id/leave", h.leaveDocument)
	r.GET("/documents/:id/collaborators", h.listCollaborators)
	r.POST("/documents/:id/cursor", h.updateCursor)
	r.POST("/documents/:id/selection", h.updateSelection)

	r.POST("/documents/:id/permissions", h.grantPermission)
	r.GET("/documents/:id/permissions", h.listPermissions)
	r.DELETE("/documents/:id/permissions/:user", h.revokePermission)

	r.POST("/documents/:id/operations", h.applyOperation)
	r.GET("/documents/:id/operations", h.listOperations)

	r.POST("/documents/:id/comments", h.addComment)
	r.GET("/documents/:id/comments", h.listComments)
	r.POST("/documents/:id/comments/:cid/resolve", h.resolveComment)
	r.DELETE("/documents/:id/comments/:cid", h.deleteComment)

	r.POST("/documents/:id/lock", h.lockDocument)
	r.POST("/documents/:id/unlock", h.unlockDocument)

	r.POST("/documents/:id/versions", h.createVersionSnapshot)
	r.GET("/documents/:id/versions", h.getVersionHistory)
	r.POST("/documents/:id/versions/:version/restore", h.restoreVersion)

	r.POST("/documents/:id/sessions", h.startSession)
	r.POST("/documents/:id/sessions/end", h.endSession)
	r.GET("/documents/:id/stats", h.getStats)

	r.POST("/presence", h.setPresence)
	r.GET("/presence/:user", h.getPresence)

	r.GET("/ws", func(c *gin.Context) {
		h.events.Serve(c.Writer, c.Request)
	})
}

// abortWithError maps the engine error taxonomy onto HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (h *handler) createDocument(c *gin.Context) {
	var req struct {
		OwnerID  string            `json:"ownerId" binding:"required"`
		Kind     string            `json:"kind" binding:"required"`
		TenantID string            `json:"tenantId"`
		Content  string            `json:"content"`
		Tags     []string          `json:"tags"`
		Meta     map[string]string `json:"meta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.collab.CreateDocument(c.Request.Context(), service.CreateDocumentRequest{
		OwnerID:  req.OwnerID,
		Kind:     req.Kind,
		TenantID: req.TenantID,
		Content:  req.Content,
		Tags:     req.Tags,
		Meta:     req.Meta,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *handler) getDocument(c *gin.Context) {
	doc, err := h.collab.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) listDocuments(c *gin.Context) {
	docs, err := h.collab.ListDocuments(c.Request.Context(), store.DocumentFilter{
		OwnerID:  c.Query("owner"),
		TenantID: c.Query("tenant"),
		Kind:     c.Query("kind"),
		MemberID: c.Query("member"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *handler) updateDocument(c *gin.Context) {
	var req struct {
		Kind     *string            `json:"kind"`
		TenantID *string            `json:"tenantId"`
		Tags     *[]string          `json:"tags"`
		Meta     *map[string]string `json:"meta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.collab.UpdateDocument(c.Request.Context(), c.Param("id"), service.UpdateDocumentRequest{
		Kind:     req.Kind,
		TenantID: req.TenantID,
		Tags:     req.Tags,
		Meta:     req.Meta,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) deleteDocument(c *gin.Context) {
	if err := h.collab.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) joinDocument(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		DisplayName string `json:"displayName"`
		Avatar      string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collaborator, err := h.collab.JoinDocument(c.Request.Context(), service.JoinDocumentRequest{
		DocumentID:  c.Param("id"),
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborator)
}

func (h *handler) leaveDocument(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.collab.LeaveDocument(c.Request.Context(), c.Param("id"), req.UserID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listCollaborators(c *gin.Context) {
	collaborators, err := h.collab.ListCollaborators(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborators)
}

func (h *handler) updateCursor(c *gin.Context) {
	var req struct {
		UserID string      `json:"userId" binding:"required"`
		Cursor live.Cursor `json:"cursor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.collab.UpdateCursor(c.Request.Context(), c.Param("id"), req.UserID, &req.Cursor); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) updateSelection(c *gin.Context) {
	var req struct {
		UserID    string          `json:"userId" binding:"required"`
		Selection *live.Selection `json:"selection"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.collab.UpdateSelection(c.Request.Context(), c.Param("id"), req.UserID, req.Selection); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) grantPermission(c *gin.Context) {
	var req struct {
		UserID    string `json:"userId" binding:"required"`
		Level     string `json:"level" binding:"required"`
		GrantedBy string `json:"grantedBy" binding:"required"`
		ExpiresAt *int64 `json:"expiresAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	perm, err := h.collab.GrantPermission(c.Request.Context(), c.Param("id"), req.UserID, req.Level, req.GrantedBy, req.ExpiresAt)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

func (h *handler) listPermissions(c *gin.Context) {
	perms, err := h.collab.ListPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

func (h *handler) revokePermission(c *gin.Context) {
	revokedBy := c.Query("revokedBy")
	if revokedBy == "" {
		revokedBy = c.GetString(identityKey)
	}

	if err := h.collab.RevokePermission(c.Request.Context(), c.Param("id"), c.Param("user"), revokedBy); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) applyOperation(c *gin.Context) {
	var req struct {
		UserID          string `json:"userId" binding:"required"`
		Kind            string `json:"kind" binding:"required"`
		Position        int    `json:"position"`
		Content         string `json:"content"`
		Length          int    `json:"length"`
		BaselineVersion int64  `json:"baselineVersion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	op, err := h.collab.ApplyOperation(c.Request.Context(), service.ApplyOperationRequest{
		DocumentID:      c.Param("id"),
		UserID:          req.UserID,
		Kind:            req.Kind,
		Position:        req.Position,
		Content:         req.Content,
		Length:          req.Length,
		BaselineVersion: req.BaselineVersion,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h *handler) listOperations(c *gin.Context) {
	ops, err := h.collab.GetOperationLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ops)
}

func (h *handler) addComment(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		Content     string `json:"content" binding:"required"`
		AnchorStart *int   `json:"anchorStart"`
		AnchorEnd   *int   `json:"anchorEnd"`
		ParentID    string `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.collab.AddComment(c.Request.Context(), service.AddCommentRequest{
		DocumentID:  c.Param("id"),
		UserID:      req.UserID,
		Content:     req.Content,
		AnchorStart: req.AnchorStart,
		AnchorEnd:   req.AnchorEnd,
		ParentID:    req.ParentID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *handler) listComments(c *gin.Context) {
	comments, err := h.collab.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *handler) resolveComment(c *gin.Context) {
	var req struct {
		ResolvedBy string `json:"resolvedBy" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.collab.ResolveComment(c.Request.Context(), c.Param("id"), c.Param("cid"), req.ResolvedBy)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *handler) deleteComment(c *gin.Context) {
	if err := h.collab.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("cid")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) lockDocument(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.collab.LockDocument(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) unlockDocument(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.collab.UnlockDocument(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) createVersionSnapshot(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.collab.CreateVersionSnapshot(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

func (h *handler) getVersionHistory(c *gin.Context) {
	history, err := h.collab.GetVersionHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *handler) restoreVersion(c *gin.Context) {
	version, err := strconv.ParseInt(c.Param("version"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
		return
	}

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.collab.RestoreVersion(c.Request.Context(), c.Param("id"), version, req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) startSession(c *gin.Context) {
	session, err := h.collab.StartSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *handler) endSession(c *gin.Context) {
	session, err := h.collab.EndSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handler) getStats(c *gin.Context) {
	stats, err := h.collab.GetCollaborationStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handler) setPresence(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	presence, err := h.collab.SetPresence(c.Request.Context(), req.UserID, req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, presence)
}

func (h *handler) getPresence(c *gin.Context) {
	presence := h.collab.GetPresence(c.Param("user"))
	if presence == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "presence not found"})
		return
	}
	c.JSON(http.StatusOK, presence)
}
