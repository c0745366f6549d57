package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/username/holiday-optimizer/internal/export"
	"github.com/username/holiday-optimizer/internal/optimizer"
	"github.com/username/holiday-optimizer/internal/planner"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// PlanRequest is the body of /api/plan and /api/export. Year defaults to the current year.
type PlanRequest struct {
	Year int `json:"year"`
	optimizer.Preferences
}

// CompareRequest is the body of /api/compare
type CompareRequest struct {
	PlanRequest
	Left  optimizer.VacationStyle `json:"left" binding:"required"`
	Right optimizer.VacationStyle `json:"right" binding:"required"`
}

func (r PlanRequest) year() int {
	if r.Year == 0 {
		return dateutil.Today().Year()
	}
	return r.Year
}

func (s *Server) health(c *gin.Context) {
	resp := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if s.warmer != nil {
		resp["cacheWarmer"] = s.warmer.GetStatus()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getHolidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	hs, err := s.planner.Holidays(c.Request.Context(), c.Param("country"), year)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hs)
}

func (s *Server) createPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	plan, err := s.planner.Plan(c.Request.Context(), req.Preferences, req.year())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) comparePlans(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	cmp, err := s.planner.Compare(c.Request.Context(), req.Preferences, req.year(), req.Left, req.Right)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (s *Server) exportPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	plan, err := s.planner.Plan(c.Request.Context(), req.Preferences, req.year())
	if err != nil {
		s.fail(c, err)
		return
	}

	cal, err := export.Generate(plan.Result, export.Options{
		Name:            fmt.Sprintf("PTO plan %s %d", plan.Preferences.Country, plan.Year),
		Holidays:        plan.Holidays,
		CompanyHolidays: plan.Preferences.CompanyHolidays,
		Stamp:           plan.GeneratedAt,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	filename := fmt.Sprintf("pto-plan-%s-%d.ics", plan.Preferences.Country, plan.Year)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, planner.ErrInvalidPreferences) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
