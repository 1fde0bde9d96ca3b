package server

import "net/http"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Pipeline stages
	mux.HandleFunc("/api/analyze", s.app.AnalyzeHandler.AnalyzeHandler)   // POST
	mux.HandleFunc("/api/generate", s.app.GenerateHandler.GenerateHandler) // POST

	// Human review loops
	mux.HandleFunc("/api/review/", s.app.ReviewHandler.ReviewRoutes) // GET/DELETE /{loopName}

	// Generation history
	mux.HandleFunc("/api/history/", s.app.HistoryHandler.HistoryRoutes) // GET /{userId}[/{requestId}]

	// Generated documents
	mux.HandleFunc("/api/readme/", s.app.ReadmeHandler.ReadmeRoutes) // GET /{owner}/{repo}

	// API keys and settings
	mux.HandleFunc("/api/keys", s.app.KVHandler.KeysHandler) // GET (list), POST (set)
	mux.HandleFunc("/api/keys/", s.app.KVHandler.KeyRoutes)  // DELETE /{key}

	// System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)

	return mux
}
