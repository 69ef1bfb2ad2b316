// Package web serves the HTTP API and websocket progress stream for the
// browser frontend.
package web

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/wjakew/fotofusion-desktop/internal/log"
	"github.com/wjakew/fotofusion-desktop/internal/session"
)

type Server struct {
	router  *mux.Router
	hub     *Hub
	version string

	logger  *log.Logger
	session *session.Session

	// lastSource and the window strings echo what the client last set, so
	// GET endpoints can round-trip them.
	lastSource  string
	windowStart string
	windowEnd   string

	// mu serializes session access across handlers; runMu admits at most
	// one scan/copy/verify run at a time.
	mu    sync.Mutex
	runMu sync.Mutex
}

func NewServer() *Server {
	logger := log.Discard()

	s := &Server{
		router:  mux.NewRouter(),
		hub:     NewHub(),
		version: "unknown",
		logger:  logger,
		session: session.New(logger),
	}

	go s.hub.Run()

	s.setupRoutes()
	return s
}

func (s *Server) SetVersion(v string) {
	s.version = v
}

func (s *Server) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.Discard()
	}
	s.logger = logger
	s.session = session.New(logger)
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", s.handleVersion).Methods("GET")
	api.HandleFunc("/browse", s.handleBrowse).Methods("GET")
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/ws", s.handleWebSocket)

	// Session routes
	api.HandleFunc("/scan", s.handleScan).Methods("POST")
	api.HandleFunc("/session", s.handleGetSession).Methods("GET")
	api.HandleFunc("/session/clear", s.handleClearSession).Methods("POST")
	api.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	api.HandleFunc("/settings", s.handleSaveSettings).Methods("POST")
	api.HandleFunc("/folders", s.handleFolders).Methods("GET")

	// Exclusion routes
	api.HandleFunc("/exclusions/toggle-item", s.handleToggleItem).Methods("POST")
	api.HandleFunc("/exclusions/toggle-folder", s.handleToggleFolder).Methods("POST")
	api.HandleFunc("/exclusions/stats", s.handleExclusionStats).Methods("GET")
	api.HandleFunc("/exclusions/clear", s.handleClearExclusions).Methods("POST")

	// Run routes
	api.HandleFunc("/copy", s.handleCopy).Methods("POST")
	api.HandleFunc("/verify", s.handleVerify).Methods("POST")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")

	// Preset routes
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets", s.handleSavePreset).Methods("POST")
	api.HandleFunc("/presets/use", s.handleUsePreset).Methods("POST")
	api.HandleFunc("/presets/delete", s.handleDeletePreset).Methods("DELETE")
	api.HandleFunc("/presets/export", s.handleExportPresets).Methods("POST")
	api.HandleFunc("/presets/import", s.handleImportPresets).Methods("POST")

	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("web/static")))
}

func (s *Server) Start(addr string) error {
	fmt.Printf("Starting FotoFusion Web UI at http://%s\n", addr)
	return http.ListenAndServe(addr, s.router)
}
