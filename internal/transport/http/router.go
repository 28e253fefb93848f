package http

import "net/http"

// NewRouter wires the health check, the quiz websocket and the REST routes.
func NewRouter(ws *WSHandler, rest *RESTHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)
	rest.Register(mux)
	return mux
}
