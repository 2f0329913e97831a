package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"firecalc/calculator"
	"firecalc/export"
	"firecalc/history"
	"firecalc/material"
	"firecalc/model"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("写入响应失败")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// 参数错误返回 400，计算过程中的错误返回 422
func errorStatus(err error) int {
	if errors.Is(err, calculator.ErrConfig) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeRequest(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request payload: %v", calculator.ErrConfig, err)
	}
	return nil
}

// run 计算一个请求，返回的 History 在出错时为已完成的部分
func (s *Server) run(ctx context.Context, req model.SimulationRequest) (*calculator.Parameter, calculator.Method, *history.History, error) {
	p, m, err := calculator.NewParameter(req, s.cfg)
	if err != nil {
		return nil, "", history.New(), err
	}
	h, err := calculator.Run(ctx, p, m)
	return p, m, h, err
}

func response(req model.SimulationRequest, m calculator.Method, dx float64, h *history.History, err error) model.SimulationResponse {
	res := model.SimulationResponse{
		Name:   req.Name,
		Method: string(m),
		Dx:     dx,
		Frames: sample(h, req.OutputEvery),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// sample 每隔 every 个时间步取一帧，最后一帧总是保留
func sample(h *history.History, every int) []model.Frame {
	frames := h.Frames()
	if every <= 1 || len(frames) == 0 {
		return frames
	}
	res := make([]model.Frame, 0, len(frames)/every+2)
	for _, f := range frames {
		if f.Step%every == 0 {
			res = append(res, f)
		}
	}
	if last := frames[len(frames)-1]; last.Step%every != 0 {
		res = append(res, last)
	}
	return res
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	var req model.SimulationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, m, h, err := s.run(r.Context(), req)
	if p == nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = errorStatus(err)
	}
	writeJSON(w, status, response(req, m, p.Dx, h, err))
}

func (s *Server) simulateCSV(w http.ResponseWriter, r *http.Request) {
	var req model.SimulationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, _, h, err := s.run(r.Context(), req)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="temperature.csv"`)
	if err := export.WriteCSV(w, h, p.Dx); err != nil {
		log.WithError(err).Error("导出 csv 失败")
	}
}

func (s *Server) simulateXLSX(w http.ResponseWriter, r *http.Request) {
	var req model.SimulationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, _, h, err := s.run(r.Context(), req)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="temperature.xlsx"`)
	if err := export.WriteXLSX(w, h, p.Dx); err != nil {
		log.WithError(err).Error("导出 xlsx 失败")
	}
}

// batch 参数有误的工况直接在结果中给出错误，其余工况并发计算
func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var req model.BatchRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results := make([]model.SimulationResponse, len(req.Items))
	var jobs []calculator.Job
	var index []int
	dx := make([]float64, len(req.Items))
	for i, item := range req.Items {
		p, m, err := calculator.NewParameter(item, s.cfg)
		if err != nil {
			results[i] = response(item, calculator.Method(item.Method), item.Dx, history.New(), err)
			continue
		}
		dx[i] = p.Dx
		jobs = append(jobs, calculator.Job{Name: item.Name, Parameter: p, Method: m})
		index = append(index, i)
	}

	for k, res := range calculator.RunBatch(r.Context(), jobs, s.cfg.Server.Workers) {
		i := index[k]
		results[i] = response(req.Items[i], res.Method, dx[i], res.History, res.Err)
	}
	writeJSON(w, http.StatusOK, model.BatchResponse{Results: results})
}

// steel 钢材物性表，查询参数 from、to、step 单位 ℃
func (s *Server) steel(w http.ResponseWriter, r *http.Request) {
	set, err := material.ByGrade(mux.Vars(r)["grade"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	q := r.URL.Query()
	from, err1 := queryFloat(q.Get("from"), material.SteelMinTemperature)
	to, err2 := queryFloat(q.Get("to"), material.SteelMaxTemperature)
	step, err3 := queryFloat(q.Get("step"), 100)
	if err := errors.Join(err1, err2, err3); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !(step > 0) || to < from || (to-from)/step > 10000 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid range from=%v to=%v step=%v", from, to, step))
		return
	}

	var rows []model.SteelPropertyRow
	for i := 0; ; i++ {
		theta := from + float64(i)*step
		if theta > to+1e-9 {
			break
		}
		rows = append(rows, model.SteelPropertyRow{
			Temperature:         theta,
			ThermalConductivity: set.Conductivity.Value(theta),
			Density:             set.Density.Value(theta),
			SpecificHeat:        set.SpecificHeat.Value(theta),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func queryFloat(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
