package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firecalc/config"
	"firecalc/export"
	"firecalc/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const simpleRequest = `{
	"name": "plate",
	"method": "explicit",
	"nodes": 10,
	"dx": 0.005,
	"dt": 0.5,
	"duration": 10,
	"material": {"thermal_conductivity": 40, "density": 7850, "specific_heat": 450},
	"exposed": {"curve": {"kind": "constant", "temperature": 800}}
}`

func newTestServer() *Server {
	cfg := config.Default()
	cfg.Server.RateLimit = 1000
	cfg.Server.Burst = 1000
	return NewServer(cfg, websocket.Upgrader{})
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSimulate(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/api/simulate", simpleRequest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res model.SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "plate", res.Name)
	assert.Equal(t, model.MethodExplicit, res.Method)
	assert.Equal(t, 0.005, res.Dx)
	assert.Empty(t, res.Error)
	require.Len(t, res.Frames, 21)
	assert.Greater(t, res.Frames[20].Field[0], res.Frames[0].Field[0])
}

func TestSimulateOutputEvery(t *testing.T) {
	body := strings.Replace(simpleRequest, `"duration": 10,`, `"duration": 10.5, "output_every": 4,`, 1)
	rec := do(t, newTestServer(), http.MethodPost, "/api/simulate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res model.SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	var steps []int
	for _, f := range res.Frames {
		steps = append(steps, f.Step)
	}
	assert.Equal(t, []int{0, 4, 8, 12, 16, 20, 21}, steps)
}

func TestSimulateErrors(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodPost, "/api/simulate", `{"method": "crank_nicolson"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "crank_nicolson")

	rec = do(t, s, http.MethodPost, "/api/simulate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 时间步数超过上限，在计算前拒绝
	rec = do(t, s, http.MethodPost, "/api/simulate", `{"duration": 1e9, "dt": 1e-3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "limit")

	// 迭代一次无法收敛，返回已完成的初始帧和错误
	body := strings.Replace(simpleRequest, `"method": "explicit",`,
		`"method": "gauss_seidel", "max_iterations": 1, "tolerance": 1e-12,`, 1)
	rec = do(t, s, http.MethodPost, "/api/simulate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var res model.SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Frames, 1)
	assert.Contains(t, res.Error, "did not converge")
}

func TestSimulateCSV(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/api/simulate/csv", simpleRequest)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	rows, err := export.ReadCSV(rec.Body)
	require.NoError(t, err)
	assert.Len(t, rows, 21*10)
}

func TestSimulateXLSX(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/api/simulate/xlsx", simpleRequest)
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetTemperature)
	require.NoError(t, err)
	assert.Len(t, rows, 22)
}

func TestBatch(t *testing.T) {
	body := `{"items": [` + simpleRequest + `, {"name": "bad", "nodes": 2}, ` +
		strings.Replace(simpleRequest, `"explicit"`, `"gauss_seidel"`, 1) + `]}`
	rec := do(t, newTestServer(), http.MethodPost, "/api/batch", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Results, 3)
	assert.Empty(t, res.Results[0].Error)
	assert.Len(t, res.Results[0].Frames, 21)
	assert.Equal(t, "bad", res.Results[1].Name)
	assert.Contains(t, res.Results[1].Error, "configuration error")
	assert.Empty(t, res.Results[1].Frames)
	assert.Equal(t, model.MethodGaussSeidel, res.Results[2].Method)
	assert.Len(t, res.Results[2].Frames, 21)
}

func TestSteel(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodGet, "/api/steel/carbon?from=20&to=220&step=100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []model.SteelPropertyRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, 120.0, rows[1].Temperature)
	assert.InDelta(t, 54-3.33e-2*120, rows[1].ThermalConductivity, 1e-9)
	assert.Equal(t, 7850.0, rows[1].Density)

	rec = do(t, s, http.MethodGet, "/api/steel/stainless", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 12)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/steel/wood", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/steel/carbon?step=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/steel/carbon?from=abc", "").Code)
}

func TestRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit = 0.001
	cfg.Server.Burst = 2
	s := NewServer(cfg, websocket.Upgrader{})

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, s, http.MethodGet, "/api/health", "").Code)
}

func dial(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

// 读取消息直到出现 frame 以外的类型
func readUntil(t *testing.T, conn *websocket.Conn, onFrame func(model.Frame)) model.Msg {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	for {
		var msg model.Msg
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != model.MsgFrame {
			return msg
		}
		var f model.Frame
		require.NoError(t, json.Unmarshal([]byte(msg.Content), &f))
		if onFrame != nil {
			onFrame(f)
		}
	}
}

func TestWebsocketRun(t *testing.T) {
	conn, closeFn := dial(t, newTestServer())
	defer closeFn()

	require.NoError(t, conn.WriteJSON(model.Msg{Type: model.MsgStart, Content: simpleRequest}))
	var steps []int
	msg := readUntil(t, conn, func(f model.Frame) {
		steps = append(steps, f.Step)
	})
	assert.Equal(t, model.MsgFinished, msg.Type)
	require.Len(t, steps, 21)
	for i, step := range steps {
		assert.Equal(t, i, step)
	}
}

func TestWebsocketStop(t *testing.T) {
	conn, closeFn := dial(t, newTestServer())
	defer closeFn()

	long := strings.Replace(simpleRequest, `"duration": 10`, `"duration": 40000`, 1)
	require.NoError(t, conn.WriteJSON(model.Msg{Type: model.MsgStart, Content: long}))
	require.NoError(t, conn.WriteJSON(model.Msg{Type: model.MsgStop}))

	msg := readUntil(t, conn, nil)
	assert.Equal(t, model.MsgStopped, msg.Type)
}

func TestWebsocketTooManySteps(t *testing.T) {
	conn, closeFn := dial(t, newTestServer())
	defer closeFn()

	huge := strings.Replace(simpleRequest, `"dt": 0.5`, `"dt": 0.001`, 1)
	huge = strings.Replace(huge, `"duration": 10`, `"duration": 1000000000`, 1)
	require.NoError(t, conn.WriteJSON(model.Msg{Type: model.MsgStart, Content: huge}))
	msg := readUntil(t, conn, nil)
	assert.Equal(t, model.MsgError, msg.Type)
	assert.Contains(t, msg.Content, "limit")
}

// 连接断开、回复无人读取时 handleRequest 仍能退出
func TestHubRequestExitsWhenReplyBlocked(t *testing.T) {
	h := NewHub(config.Default(), nil)
	for i := 0; i < cap(h.reply); i++ {
		h.reply <- model.Msg{Type: model.MsgError}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.handleRequest(ctx)
		close(done)
	}()
	h.msg <- model.Msg{Type: "env"}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handleRequest blocked on a full reply channel")
	}
}

func TestWebsocketBadMessages(t *testing.T) {
	conn, closeFn := dial(t, newTestServer())
	defer closeFn()

	require.NoError(t, conn.WriteJSON(model.Msg{Type: "env"}))
	msg := readUntil(t, conn, nil)
	assert.Equal(t, model.MsgError, msg.Type)
	assert.Contains(t, msg.Content, "env")

	require.NoError(t, conn.WriteJSON(model.Msg{Type: model.MsgStart, Content: `{"nodes": 1}`}))
	msg = readUntil(t, conn, nil)
	assert.Equal(t, model.MsgError, msg.Type)
	assert.Contains(t, msg.Content, "configuration error")
}
