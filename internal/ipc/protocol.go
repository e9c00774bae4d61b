package ipc

// Request is one command sent to the session owner. Text carries the
// manual transcript override for the "text" command.
type Request struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
}

type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
