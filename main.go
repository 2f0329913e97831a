package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"firecalc/calculator"
	"firecalc/config"
	"firecalc/export"
	"firecalc/fire"
	"firecalc/material"
	"firecalc/model"
	"firecalc/server"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var (
	configPath = flag.String("config", "", "ini 配置文件路径，默认读取环境变量 "+config.EnvConfigPath+" 或 "+config.DefaultPath)
	envFile    = flag.String("env", ".env", "环境变量文件")
	runFile    = flag.String("run", "", "直接计算该 json 请求文件，不启动服务")
	outFile    = flag.String("out", "", "-run 的输出文件，.csv 或 .xlsx，默认输出 csv 到标准输出")

	materialCSV = flag.String("material", "", "-run 使用的物性表 csv: temperature,thermal_conductivity,density,specific_heat")
	curveCSV    = flag.String("curve", "", "-run 受火面使用的升温曲线 csv: time,temperature")
)

func main() {
	flag.Parse()

	cfg, err := config.FromEnv(*envFile, *configPath)
	if err != nil {
		log.WithError(err).Fatal("读取配置失败")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *runFile != "" {
		if err := runOnce(ctx, cfg, *runFile, *outFile, *materialCSV, *curveCSV); err != nil {
			log.WithError(err).Fatal("计算失败")
		}
		return
	}

	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	s := server.NewServer(cfg, upgrader)
	if err := s.Serve(ctx); err != nil {
		log.WithError(err).Fatal("服务异常退出")
	}
}

func runOnce(ctx context.Context, cfg *config.Config, in, out, materialCSV, curveCSV string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	var req model.SimulationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse %s: %w", in, err)
	}
	if err := loadTables(&req, materialCSV, curveCSV); err != nil {
		return err
	}
	p, m, err := calculator.NewParameter(req, cfg)
	if err != nil {
		return err
	}
	h, err := calculator.Run(ctx, p, m)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		return export.WriteXLSX(w, h, p.Dx)
	}
	return export.WriteCSV(w, h, p.Dx)
}

// loadTables 用 csv 文件替换请求中的物性表和受火面升温曲线
func loadTables(req *model.SimulationRequest, materialCSV, curveCSV string) error {
	if materialCSV != "" {
		f, err := os.Open(materialCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		points, err := material.LoadTable(f)
		if err != nil {
			return err
		}
		req.Material.Table = points
		if req.Material.Grade == "" {
			req.Material.Grade = strings.TrimSuffix(filepath.Base(materialCSV), filepath.Ext(materialCSV))
		}
	}
	if curveCSV != "" {
		f, err := os.Open(curveCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		points, err := fire.LoadPoints(f)
		if err != nil {
			return err
		}
		req.Exposed.Curve = model.CurveSpec{Kind: "table", Points: points}
	}
	return nil
}
