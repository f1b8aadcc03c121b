package ws

// Message исходящее сообщение клиенту
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	MsgReady = "ready"
	MsgState = "state"
	MsgTurn  = "turn"
	MsgError = "error"
	MsgPick  = "pick"
)

// входящее сообщение: {"type":"pick","row":0,"col":1} или {"type":"state"}
type inbound struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}
