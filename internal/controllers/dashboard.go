package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Laizra/Call-tracker-app-R2024/internal/charts"
	"github.com/Laizra/Call-tracker-app-R2024/internal/dashboard"
	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
	"github.com/Laizra/Call-tracker-app-R2024/internal/repos"
	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

const SessionCookie = "calltracker_session"

// DashboardController turns HTTP requests into dashboard events for the
// caller's session.
type DashboardController struct {
	Sessions   *dashboard.SessionStore
	Dispatcher dashboard.Dispatcher
	Logger     *zap.Logger
	ChartSize  charts.Size

	// Health reports store reachability for /healthz; nil means always healthy.
	Health func(ctx context.Context) error
}

type rowForm struct {
	Day                 string `form:"day"`
	CallTime            string `form:"call_time"`
	PickUp              string `form:"pick_up"`
	SubmitDate          string `form:"submit_date"`
	GoodTimeFor3MinTalk string `form:"good_time_for_3min_talk"`
	Job                 string `form:"job"`
	SubmissionID        string `form:"submission_id"`
}

func (f rowForm) record() models.CallRecord {
	return models.CallRecord{
		Day:                 models.Day(f.Day),
		CallTime:            models.CallTime(f.CallTime),
		PickUp:              models.PickUp(f.PickUp),
		SubmitDate:          f.SubmitDate,
		GoodTimeFor3MinTalk: f.GoodTimeFor3MinTalk,
		Job:                 f.Job,
		SubmissionID:        f.SubmissionID,
	}
}

type dashboardView struct {
	State     dashboard.State
	Chart     services.ChartSeries
	Days      []models.Day
	CallTimes []models.CallTime
	PickUps   []models.PickUp
	ChartURL  string
}

// Index renders the page. ?day= selects the chart day.
func (dc *DashboardController) Index(c *gin.Context) {
	var (
		st  dashboard.State
		err error
	)
	if day := c.Query("day"); day != "" {
		st, err = dc.apply(c, dashboard.Event{Kind: dashboard.DaySelected, Day: models.Day(day)})
	} else {
		st = dc.Sessions.Get(c.Request.Context(), dc.sessionID(c))
	}
	if err != nil {
		dc.Logger.Warn("index dispatch failed", zap.Error(err))
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", dashboardView{
		State:     st,
		Chart:     st.Chart(),
		Days:      models.Days,
		CallTimes: models.CallTimes,
		PickUps:   models.PickUps,
		ChartURL:  fmt.Sprintf("/chart.png?day=%s&v=%d", st.Day, time.Now().UnixNano()),
	})
}

func (dc *DashboardController) SelectDay(c *gin.Context) {
	dc.applyAndRedirect(c, dashboard.Event{Kind: dashboard.DaySelected, Day: models.Day(c.PostForm("day"))})
}

func (dc *DashboardController) AddRow(c *gin.Context) {
	var form rowForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dc.applyAndRedirect(c, dashboard.Event{Kind: dashboard.AddRow, Row: form.record()})
}

func (dc *DashboardController) DeleteRows(c *gin.Context) {
	selected, err := parseIndexes(c.PostFormArray("selected"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dc.applyAndRedirect(c, dashboard.Event{Kind: dashboard.DeleteRow, Selected: selected})
}

func (dc *DashboardController) SaveChanges(c *gin.Context) {
	dc.applyAndRedirect(c, dashboard.Event{Kind: dashboard.SaveChanges})
}

// ChartPNG renders the session's chart. ?day= overrides the selected day
// without changing it.
func (dc *DashboardController) ChartPNG(c *gin.Context) {
	st := dc.Sessions.Get(c.Request.Context(), dc.sessionID(c))
	cs := dc.chartFor(c, st)

	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := charts.RenderVolumeChart(c.Writer, cs, dc.ChartSize); err != nil {
		dc.Logger.Error("chart render failed; served blank", zap.String("day", string(cs.Day)), zap.Error(err))
	}
}

func (dc *DashboardController) ExportCSV(c *gin.Context) {
	st := dc.Sessions.Get(c.Request.Context(), dc.sessionID(c))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="calltracker.csv"`)
	c.Status(http.StatusOK)
	if err := repos.WriteCallRecordsCSV(c.Writer, st.Rows); err != nil {
		dc.Logger.Error("csv export failed", zap.Error(err))
	}
}

func (dc *DashboardController) Healthz(c *gin.Context) {
	if dc.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := dc.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (dc *DashboardController) applyAndRedirect(c *gin.Context, ev dashboard.Event) {
	if _, err := dc.apply(c, ev); err != nil {
		dc.Logger.Warn("dispatch failed", zap.String("event", string(ev.Kind)), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (dc *DashboardController) apply(c *gin.Context, ev dashboard.Event) (dashboard.State, error) {
	ctx := c.Request.Context()
	return dc.Sessions.Update(ctx, dc.sessionID(c), func(s dashboard.State) (dashboard.State, error) {
		return dc.Dispatcher.Dispatch(ctx, s, ev)
	})
}

func (dc *DashboardController) chartFor(c *gin.Context, st dashboard.State) services.ChartSeries {
	day := st.Day
	if d, ok := models.ParseDay(c.Query("day")); ok {
		day = d
	}
	return services.Aggregate(st.Rows, day)
}

// sessionID returns the caller's session id, issuing a cookie on first visit.
func (dc *DashboardController) sessionID(c *gin.Context) string {
	if id, ok := c.Get(SessionCookie); ok {
		return id.(string)
	}
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		id = dashboard.NewSessionID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	}
	c.Set(SessionCookie, id)
	return id
}

func parseIndexes(raw []string) ([]int, error) {
	out := make([]int, 0, len(raw))
	for _, s := range raw {
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid row index %q", s)
		}
		out = append(out, i)
	}
	return out, nil
}
