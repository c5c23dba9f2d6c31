package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter wires the dashboard API around the scheduler's cached
// snapshot. All chart endpoints serve slices of the same snapshot so one
// refresh feeds every panel consistently.
func NewRouter(sched *Scheduler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/snapshot", snapshotHandler(sched, func(s *models.Snapshot) any { return s }))
		api.GET("/timeseries", snapshotHandler(sched, func(s *models.Snapshot) any { return s.Series }))
		api.GET("/rolling", snapshotHandler(sched, func(s *models.Snapshot) any { return s.Rolling }))
		api.GET("/change", snapshotHandler(sched, changeView))
		api.GET("/geo", snapshotHandler(sched, func(s *models.Snapshot) any { return s.Regions }))
		api.GET("/hashtags", snapshotHandler(sched, func(s *models.Snapshot) any { return s.Hashtags }))
		api.GET("/wordcloud", snapshotHandler(sched, func(s *models.Snapshot) any { return s.Words }))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func snapshotHandler(sched *Scheduler, view func(*models.Snapshot) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot := sched.Latest()
		if snapshot == nil {
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "snapshot not ready"})
			return
		}
		c.JSON(http.StatusOK, view(snapshot))
	}
}

// changeView renders the percent metric, spelling out the empty prior
// window instead of an infinity.
func changeView(s *models.Snapshot) any {
	if !s.Change.HasPrior {
		return gin.H{"available": false, "reason": "no prior data"}
	}
	return gin.H{"available": true, "percent": s.Change.Percent}
}
