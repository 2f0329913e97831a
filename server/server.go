package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"firecalc/config"
	"firecalc/model"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Server struct {
	cfg      *config.Config
	upgrader websocket.Upgrader
	router   *mux.Router
}

func NewServer(cfg *config.Config, upgrader websocket.Upgrader) *Server {
	s := &Server{
		cfg:      cfg,
		upgrader: upgrader,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	limiter := NewIPRateLimiter(rate.Limit(s.cfg.Server.RateLimit), s.cfg.Server.Burst)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.HandleFunc("/health", s.health).Methods("GET")
	api.HandleFunc("/simulate", s.simulate).Methods("POST")
	api.HandleFunc("/simulate/csv", s.simulateCSV).Methods("POST")
	api.HandleFunc("/simulate/xlsx", s.simulateXLSX).Methods("POST")
	api.HandleFunc("/batch", s.batch).Methods("POST")
	api.HandleFunc("/steel/{grade}", s.steel).Methods("GET")

	s.router.HandleFunc("/ws", s.serveWs)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket 升级失败")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	hub := NewHub(s.cfg, conn)
	go hub.handleRequest(ctx)
	go hub.handleResponse(ctx)

	log.WithField("remote", r.RemoteAddr).Info("websocket 连接建立")
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			log.WithError(err).Info("websocket 连接断开")
			return
		}
		select {
		case hub.msg <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// Serve 监听直到 ctx 结束，然后在 5s 内关闭服务
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("收到退出信号，关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("服务已停止")
	return nil
}
