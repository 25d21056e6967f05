package vanehttp

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"vane/internal/calibration"
	"vane/internal/logger"
	"vane/internal/store/runlog"

	"github.com/gin-gonic/gin"
)

const maxEvaluateBody = 1 << 20 // 1MB

// Router 暴露评估与流水查询接口。
type Router struct {
	Service     EvaluateService
	Runs        *runlog.Store
	Calibration *calibration.Registry
}

// NewRouter 构造 API router。
func NewRouter(service EvaluateService, runs *runlog.Store, cal *calibration.Registry) *Router {
	return &Router{Service: service, Runs: runs, Calibration: cal}
}

// Register 将 /api/v1 路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/evaluate", r.handleEvaluate)
	group.GET("/runs", r.handleListRuns)
	group.GET("/runs/:trace_id", r.handleGetRun)
	group.GET("/calibration", r.handleCalibration)
}

func (r *Router) handleEvaluate(c *gin.Context) {
	if r.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evaluate service unavailable"})
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEvaluateBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := ValidateEvaluatePayload(string(raw))
	if err != nil {
		logger.Warnf("[api] evaluate payload rejected ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := r.Service.EvaluateScores(c.Request.Context(), req)
	if err != nil {
		logger.Errorf("[api] evaluate failed ip=%s symbol=%s err=%v", c.ClientIP(), req.Symbol, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] evaluate ip=%s symbol=%s score=%d strategy=%s trace=%s",
		c.ClientIP(), resp.Symbol, resp.Result.Score, resp.Strategy, resp.TraceID)
	c.JSON(http.StatusOK, resp)
}

func (r *Router) handleListRuns(c *gin.Context) {
	if r.Runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run log store unavailable"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	runs, err := r.Runs.ListRuns(c.Request.Context(), symbol, limit)
	if err != nil {
		logger.Errorf("[api] list runs failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (r *Router) handleGetRun(c *gin.Context) {
	if r.Runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run log store unavailable"})
		return
	}
	traceID := strings.TrimSpace(c.Param("trace_id"))
	rec, err := r.Runs.GetRun(c.Request.Context(), traceID)
	if err != nil {
		if errors.Is(err, runlog.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		logger.Errorf("[api] get run failed ip=%s trace=%s err=%v", c.ClientIP(), traceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": rec})
}

func (r *Router) handleCalibration(c *gin.Context) {
	if r.Calibration == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calibration registry unavailable"})
		return
	}
	snap := r.Calibration.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"version":    snap.Version,
		"loaded_at":  snap.LoadedAt,
		"weights":    snap.Weights,
		"thresholds": snap.Thresholds,
		"decision":   snap.Decision,
	})
}
