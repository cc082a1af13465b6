package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type CourseCounter interface {
	Count(ctx context.Context) (int64, error)
}

// SystemHandler serves liveness, database and route-table endpoints.
type SystemHandler struct {
	DB      Pinger
	Courses CourseCounter

	routerMu sync.RWMutex
	router   *gin.Engine
}

func NewSystemHandler(db Pinger, courses CourseCounter) *SystemHandler {
	return &SystemHandler{DB: db, Courses: courses}
}

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func (h *SystemHandler) SetRouter(r *gin.Engine) {
	h.routerMu.Lock()
	defer h.routerMu.Unlock()
	h.router = r
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "course service running"})
}

func (h *SystemHandler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "database not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "database ping failed", nil)
		return
	}
	count, err := h.Courses.Count(ctx)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "courses_in_db": count})
}

func (h *SystemHandler) Routes(c *gin.Context) {
	h.routerMu.RLock()
	r := h.router
	h.routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
