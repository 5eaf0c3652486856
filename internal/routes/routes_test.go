package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/Laizra/Call-tracker-app-R2024/internal/controllers"
	"github.com/Laizra/Call-tracker-app-R2024/internal/dashboard"
	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
	"github.com/Laizra/Call-tracker-app-R2024/internal/repos"
	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

var quiet = log.New(io.Discard, "", 0)

type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T, health func(context.Context) error, seed ...models.CallRecord) (*client, *repos.MemoryCallRecordsRepo) {
	t.Helper()
	store := repos.NewMemoryCallRecordsRepo(seed, quiet)
	d := dashboard.Dispatcher{
		Saver:  services.CallReconcileService{Store: store, Logger: quiet},
		Loader: store,
		Logger: quiet,
	}
	dc := &controllers.DashboardController{
		Sessions:   dashboard.NewSessionStore(d.InitialState, 0),
		Dispatcher: d,
		Logger:     zap.NewNop(),
		Health:     health,
	}
	return &client{t: t, router: NewRouter(dc, Options{Debug: true})}, store
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == controllers.SessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(c.t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) state() dashboard.State {
	c.t.Helper()
	rec := c.get("/api/state")
	require.Equal(c.t, http.StatusOK, rec.Code)
	var body struct {
		Data dashboard.State `json:"data"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func seedRow(id string) models.CallRecord {
	return models.CallRecord{Day: models.Sunday, CallTime: "2:00 PM", PickUp: models.PickUpYes, SubmissionID: id}
}

func TestIndexRendersGridAndIssuesCookie(t *testing.T) {
	c, _ := newClient(t, nil, seedRow("1001"))

	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1001")
	assert.Contains(t, rec.Body.String(), `src="/chart.png?day=Sunday`)
	require.NotNil(t, c.cookie)
}

func TestFormFlowAddDeleteSave(t *testing.T) {
	c, store := newClient(t, nil, seedRow("1"), seedRow("2"))
	c.get("/")

	rec := c.postForm("/rows", url.Values{
		"day": {"Monday"}, "call_time": {"1:00 PM"}, "pick_up": {"No"}, "submission_id": {"42"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.postForm("/rows/delete", url.Values{"selected": {"0"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"1"}, c.state().Pending)

	rec = c.postForm("/save", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	st := c.state()
	assert.Empty(t, st.Pending)
	assert.False(t, st.NoticeError)

	ids, err := store.FetchSubmissionIDs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2", "42"}, ids)
}

func TestAddRowWithoutIDShowsFieldError(t *testing.T) {
	c, _ := newClient(t, nil)
	c.postForm("/rows", url.Values{"submission_id": {"  "}})

	st := c.state()
	assert.Equal(t, dashboard.MsgInvalidID, st.FieldError)
	assert.Empty(t, st.Rows)
}

func TestDeleteRowsRejectsBadIndex(t *testing.T) {
	c, _ := newClient(t, nil)
	rec := c.postForm("/rows/delete", url.Values{"selected": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionsDoNotShareGrid(t *testing.T) {
	a, _ := newClient(t, nil, seedRow("1"))
	a.postForm("/rows", url.Values{"submission_id": {"2"}})

	b := &client{t: t, router: a.router}
	assert.Len(t, b.state().Rows, 1)
	assert.Len(t, a.state().Rows, 2)
}

// inkedPixels decodes a PNG body and counts pixels that are not pure white.
func inkedPixels(t *testing.T, body []byte) int {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r&g&bl != 0xffff {
				n++
			}
		}
	}
	return n
}

func TestChartPNG(t *testing.T) {
	c, _ := newClient(t, nil, seedRow("1"), seedRow("2"),
		models.CallRecord{Day: models.Sunday, CallTime: "3:00 PM", PickUp: models.PickUpNo, SubmissionID: "3"})

	rec := c.get("/chart.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Positive(t, inkedPixels(t, rec.Body.Bytes()), "seeded day renders a drawn chart")

	rec = c.get("/chart.png?day=Tuesday")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, inkedPixels(t, rec.Body.Bytes()), "day without rows renders blank")
}

func TestChartPNGSingleSlot(t *testing.T) {
	c, _ := newClient(t, nil, seedRow("1"))

	rec := c.get("/chart.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Positive(t, inkedPixels(t, rec.Body.Bytes()))
}

func TestAPIChartDayOverride(t *testing.T) {
	c, _ := newClient(t, nil)
	rec := c.sendJSON(http.MethodPut, "/api/rows", []models.CallRecord{
		{Day: models.Monday, CallTime: "1:00 PM", PickUp: models.PickUpYes, SubmissionID: "a"},
		{Day: models.Monday, CallTime: "1:00 PM", PickUp: models.PickUpNo, SubmissionID: "b"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.get("/api/chart?day=Monday")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data services.ChartSeries `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Slots, 1)
	assert.Equal(t, 2, body.Data.Slots[0].Total)
	assert.InDelta(t, 50.0, body.Data.Slots[0].SuccessRate, 1e-9)

	assert.Equal(t, models.Sunday, c.state().Day, "override does not change the selected day")
}

func TestAPIEvents(t *testing.T) {
	c, _ := newClient(t, nil)

	rec := c.sendJSON(http.MethodPost, "/api/events", dashboard.Event{Kind: dashboard.DaySelected, Day: "friday"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Friday, c.state().Day)

	rec = c.sendJSON(http.MethodPost, "/api/events", map[string]string{"kind": string(dashboard.SaveCompleted)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, c.do(req).Code)
}

func TestExportCSV(t *testing.T) {
	c, _ := newClient(t, nil, seedRow("7"))

	rec := c.get("/export.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	rows, err := repos.ParseCallRecordsCSV(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, models.SubmissionIDs(rows))
}

func TestHealthz(t *testing.T) {
	ok, _ := newClient(t, nil)
	assert.Equal(t, http.StatusOK, ok.get("/healthz").Code)

	down, _ := newClient(t, func(context.Context) error { return errors.New("dial tcp: refused") })
	assert.Equal(t, http.StatusServiceUnavailable, down.get("/healthz").Code)
}
