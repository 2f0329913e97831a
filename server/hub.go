package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"firecalc/calculator"
	"firecalc/config"
	"firecalc/model"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Hub 一个 websocket 连接对应一个 Hub，负责请求分发与计算结果推送
type Hub struct {
	cfg  *config.Config
	conn *websocket.Conn
	calc *calculator.CalcHub
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
}

func NewHub(cfg *config.Config, conn *websocket.Conn) *Hub {
	return &Hub{
		cfg:   cfg,
		conn:  conn,
		calc:  calculator.NewCalcHub(cfg.Server.Window),
		msg:   make(chan model.Msg, 10),
		reply: make(chan model.Msg, 10),
	}
}

func (h *Hub) send(reply model.Msg) {
	if err := h.conn.WriteJSON(&reply); err != nil {
		log.WithError(err).Warn("推送消息失败")
	}
}

func (h *Hub) sendFrame(f model.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		log.WithError(err).Error("温度场序列化失败")
		return
	}
	h.send(model.Msg{Type: model.MsgFrame, Content: string(data)})
}

// handleResponse 唯一向连接写数据的 goroutine
func (h *Hub) handleResponse(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reply := <-h.reply:
			h.send(reply)
		case f := <-h.calc.Frames:
			h.sendFrame(f)
		case err := <-h.calc.Done:
			// 先推送缓存中剩余的温度场
			for len(h.calc.Frames) > 0 {
				h.sendFrame(<-h.calc.Frames)
			}
			switch {
			case err == nil:
				h.send(model.Msg{Type: model.MsgFinished, Content: "finished"})
			case errors.Is(err, context.Canceled):
				h.send(model.Msg{Type: model.MsgStopped, Content: "stopped"})
			default:
				h.send(model.Msg{Type: model.MsgError, Content: err.Error()})
			}
		}
	}
}

func (h *Hub) handleRequest(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.calc.StopSignal()
			return
		case msg := <-h.msg:
			switch msg.Type {
			case model.MsgStart:
				if err := h.start(ctx, msg.Content); err != nil {
					h.replyMsg(ctx, model.Msg{Type: model.MsgError, Content: err.Error()})
				}
			case model.MsgStop:
				h.calc.StopSignal()
			default:
				log.WithField("type", msg.Type).Warn("no such type")
				h.replyMsg(ctx, model.Msg{Type: model.MsgError, Content: fmt.Sprintf("unknown message type %q", msg.Type)})
			}
		}
	}
}

// 连接断开后 handleResponse 不再读取 reply
func (h *Hub) replyMsg(ctx context.Context, msg model.Msg) {
	select {
	case h.reply <- msg:
	case <-ctx.Done():
	}
}

func (h *Hub) start(ctx context.Context, content string) error {
	var req model.SimulationRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return fmt.Errorf("%w: invalid request payload: %v", calculator.ErrConfig, err)
	}
	p, m, err := calculator.NewParameter(req, h.cfg)
	if err != nil {
		return err
	}
	return h.calc.Start(ctx, p, m, h.cfg.Server.Window)
}
