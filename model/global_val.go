package model

// 计算方法
const (
	MethodExplicit    = "explicit"
	MethodGaussSeidel = "gauss_seidel"
)

// 显式差分的节点更新顺序
const (
	SweepInPlace  = "in_place"
	SweepSnapshot = "snapshot"
)

// websocket 消息类型
const (
	MsgStart    = "start"
	MsgStop     = "stop"
	MsgFrame    = "frame"
	MsgFinished = "finished"
	MsgStopped  = "stopped"
	MsgError    = "error"
)
