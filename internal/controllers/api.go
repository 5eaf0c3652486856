package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Laizra/Call-tracker-app-R2024/internal/dashboard"
	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
)

var userEvents = map[dashboard.EventKind]bool{
	dashboard.AddRow:      true,
	dashboard.DeleteRow:   true,
	dashboard.SaveChanges: true,
	dashboard.DaySelected: true,
	dashboard.GridEdited:  true,
}

func (dc *DashboardController) GetState(c *gin.Context) {
	st := dc.Sessions.Get(c.Request.Context(), dc.sessionID(c))
	c.JSON(http.StatusOK, gin.H{"data": st})
}

func (dc *DashboardController) GetChart(c *gin.Context) {
	st := dc.Sessions.Get(c.Request.Context(), dc.sessionID(c))
	c.JSON(http.StatusOK, gin.H{"data": dc.chartFor(c, st)})
}

// ReplaceRows is the grid's "row data changed" hook: the body is the full row set.
func (dc *DashboardController) ReplaceRows(c *gin.Context) {
	var rows []models.CallRecord
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dc.respond(c, dashboard.Event{Kind: dashboard.GridEdited, Rows: rows})
}

// PostEvent dispatches one JSON-encoded event.
func (dc *DashboardController) PostEvent(c *gin.Context) {
	var ev dashboard.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !userEvents[ev.Kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event kind: " + string(ev.Kind)})
		return
	}
	dc.respond(c, ev)
}

func (dc *DashboardController) respond(c *gin.Context, ev dashboard.Event) {
	st, err := dc.apply(c, ev)
	if err != nil {
		dc.Logger.Warn("api dispatch failed", zap.String("event", string(ev.Kind)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "data": st})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": st})
}
