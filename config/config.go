package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// 环境变量，可写在 .env 文件中
const (
	EnvConfigPath = "FIRECALC_CONFIG"
	EnvAddr       = "FIRECALC_ADDR"
)

const DefaultPath = "conf/config.ini"

type Config struct {
	Solver   Solver
	Boundary Boundary
	Server   Server
}

// 求解器默认参数，请求中未给出的字段使用这里的值
type Solver struct {
	Method             string
	Nodes              int
	Dx                 float64 // m
	Dt                 float64 // s
	Duration           float64 // s
	InitialTemperature float64 // ℃
	FloorTemperature   float64 // ℃
	Tolerance          float64
	MaxIterations      int
	Sweep              string
	MaxSteps           int // 单次计算的时间步数上限
}

// 边界换热参数
type Boundary struct {
	Ambient             float64 // 背火面环境温度 ℃
	ExposedEmissivity   float64
	ExposedConvection   float64 // W/m2K
	UnexposedEmissivity float64
	UnexposedConvection float64 // W/m2K
}

type Server struct {
	Addr      string
	RateLimit float64 // 每个 IP 每秒请求数
	Burst     int
	Workers   int // 批量计算的并发数
	Window    int // websocket 推送缓存的时间步数
}

func Default() *Config {
	return &Config{
		Solver: Solver{
			Method:             "explicit",
			Nodes:              100,
			Dx:                 0.001,
			Dt:                 0.05,
			Duration:           600,
			InitialTemperature: 20,
			FloorTemperature:   20,
			Tolerance:          1e-6,
			MaxIterations:      1000,
			Sweep:              "in_place",
			MaxSteps:           100000,
		},
		Boundary: Boundary{
			Ambient:             20,
			ExposedEmissivity:   0.7,
			ExposedConvection:   25,
			UnexposedEmissivity: 0.7,
			UnexposedConvection: 9,
		},
		Server: Server{
			Addr:      ":9000",
			RateLimit: 5,
			Burst:     10,
			Workers:   4,
			Window:    256,
		},
	}
}

// Load 读取 ini 配置文件，缺少的键使用默认值
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return loadCfg(file), nil
}

func loadCfg(file *ini.File) *Config {
	d := Default()
	solver := file.Section("solver")
	boundary := file.Section("boundary")
	server := file.Section("server")
	cfg := &Config{
		Solver: Solver{
			Method:             solver.Key("Method").MustString(d.Solver.Method),
			Nodes:              solver.Key("Nodes").MustInt(d.Solver.Nodes),
			Dx:                 solver.Key("Dx").MustFloat64(d.Solver.Dx),
			Dt:                 solver.Key("Dt").MustFloat64(d.Solver.Dt),
			Duration:           solver.Key("Duration").MustFloat64(d.Solver.Duration),
			InitialTemperature: solver.Key("InitialTemperature").MustFloat64(d.Solver.InitialTemperature),
			FloorTemperature:   solver.Key("FloorTemperature").MustFloat64(d.Solver.FloorTemperature),
			Tolerance:          solver.Key("Tolerance").MustFloat64(d.Solver.Tolerance),
			MaxIterations:      solver.Key("MaxIterations").MustInt(d.Solver.MaxIterations),
			Sweep:              solver.Key("Sweep").MustString(d.Solver.Sweep),
			MaxSteps:           solver.Key("MaxSteps").MustInt(d.Solver.MaxSteps),
		},
		Boundary: Boundary{
			Ambient:             boundary.Key("Ambient").MustFloat64(d.Boundary.Ambient),
			ExposedEmissivity:   boundary.Key("ExposedEmissivity").MustFloat64(d.Boundary.ExposedEmissivity),
			ExposedConvection:   boundary.Key("ExposedConvection").MustFloat64(d.Boundary.ExposedConvection),
			UnexposedEmissivity: boundary.Key("UnexposedEmissivity").MustFloat64(d.Boundary.UnexposedEmissivity),
			UnexposedConvection: boundary.Key("UnexposedConvection").MustFloat64(d.Boundary.UnexposedConvection),
		},
		Server: Server{
			Addr:      server.Key("Addr").MustString(d.Server.Addr),
			RateLimit: server.Key("RateLimit").MustFloat64(d.Server.RateLimit),
			Burst:     server.Key("Burst").MustInt(d.Server.Burst),
			Workers:   server.Key("Workers").MustInt(d.Server.Workers),
			Window:    server.Key("Window").MustInt(d.Server.Window),
		},
	}
	log.WithFields(log.Fields{
		"Method":   cfg.Solver.Method,
		"Nodes":    cfg.Solver.Nodes,
		"Dx":       cfg.Solver.Dx,
		"Dt":       cfg.Solver.Dt,
		"Duration": cfg.Solver.Duration,
		"Addr":     cfg.Server.Addr,
	}).Info("读取配置")
	return cfg
}

// FromEnv 先加载 .env（不存在时忽略），再按环境变量确定配置文件路径。
// path 非空时优先使用 path；配置文件不存在时使用默认配置。
func FromEnv(envFile, path string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath
	}

	var cfg *Config
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Warn("配置文件不存在，使用默认配置")
		cfg = Default()
	} else {
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg, nil
}
