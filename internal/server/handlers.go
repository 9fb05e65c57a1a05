package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/educator-insights/internal/backend"
	"github.com/rcliao/educator-insights/internal/model"
	"github.com/rcliao/educator-insights/internal/result"
)

// listQuery is the query string accepted by the conversation listings.
type listQuery struct {
	Page          int    `form:"page,default=1"`
	PageSize      int    `form:"page_size,default=20"`
	Ordering      string `form:"ordering"`
	NoDefaultSort bool   `form:"no_default_sort"`
}

func bindList(c *gin.Context) (listQuery, bool) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond(c, result.Failf[struct{}](http.StatusBadRequest, "invalid query: %v", err))
		return q, false
	}
	return q, true
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respond(c, result.Failf[struct{}](http.StatusBadRequest, "invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

type whoami struct {
	Tier      model.Tier       `json:"tier"`
	Demo      bool             `json:"demo"`
	Principal *model.Principal `json:"principal,omitempty"`
}

func (s *Server) handleWhoami(c *gin.Context) {
	sess := sessionFrom(c)
	respond(c, result.OK(whoami{Tier: sess.EffectiveTier(), Demo: sess.Demo(), Principal: sess.Principal}))
}

func (s *Server) handleHealth(c *gin.Context) {
	respond(c, s.svc.Health(c.Request.Context()))
}

func (s *Server) handleConversations(c *gin.Context) {
	q, ok := bindList(c)
	if !ok {
		return
	}
	params := model.ListParams{Page: q.Page, PageSize: q.PageSize, Ordering: q.Ordering, NoDefaultSort: q.NoDefaultSort}
	respond(c, s.svc.ConversationsWithAnalytics(c.Request.Context(), sessionFrom(c), params))
}

func (s *Server) handleRawConversations(c *gin.Context) {
	q, ok := bindList(c)
	if !ok {
		return
	}
	bq := backend.ConversationQuery{Page: q.Page, PageSize: q.PageSize, Ordering: q.Ordering}
	respond(c, s.svc.Conversations(c.Request.Context(), sessionFrom(c), bq))
}

func (s *Server) handleConversationDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	respond(c, s.svc.ConversationDetails(c.Request.Context(), sessionFrom(c), id))
}

func (s *Server) handleCharacterStats(c *gin.Context) {
	respond(c, s.svc.CharacterStats(c.Request.Context(), sessionFrom(c)))
}

func (s *Server) handleDashboardStats(c *gin.Context) {
	respond(c, s.svc.DashboardStats(c.Request.Context(), sessionFrom(c)))
}

func (s *Server) handleChildren(c *gin.Context) {
	parentID := 0
	if raw := c.Query("parent_id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respond(c, result.Failf[struct{}](http.StatusBadRequest, "invalid parent_id %q", raw))
			return
		}
		parentID = v
	}
	respond(c, s.svc.Children(c.Request.Context(), sessionFrom(c), parentID))
}

func (s *Server) handleChildAnalytics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	kind := backend.Analytics(c.Param("kind"))
	if !backend.ValidAnalytics[kind] {
		respond(c, result.Failf[struct{}](http.StatusNotFound, "unknown analytics %q", kind))
		return
	}
	respond(c, s.svc.ChildAnalytics(c.Request.Context(), sessionFrom(c), kind, id))
}

func (s *Server) handleStudents(c *gin.Context) {
	respond(c, s.svc.StudentRoster(c.Request.Context(), sessionFrom(c)))
}
