package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/pipeline"
	"github.com/ternarybob/scribo/internal/services/metadata"
	"github.com/ternarybob/scribo/internal/services/render"
)

// ReadmeHandler serves generated READMEs as markdown or rendered HTML
type ReadmeHandler struct {
	generateService *pipeline.GenerateService
	renderer        *render.Renderer
	logger          arbor.ILogger
}

// NewReadmeHandler creates a new ReadmeHandler
func NewReadmeHandler(generateService *pipeline.GenerateService, renderer *render.Renderer, logger arbor.ILogger) *ReadmeHandler {
	return &ReadmeHandler{
		generateService: generateService,
		renderer:        renderer,
		logger:          logger,
	}
}

// ReadmeRoutes handles GET /api/readme/{owner}/{repo}?format=markdown|html
func (h *ReadmeHandler) ReadmeRoutes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/readme/"), "/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		WriteError(w, http.StatusBadRequest, "Owner and repository required")
		return
	}
	owner, repo := parts[0], parts[1]

	content, err := h.generateService.LoadReadme(r.Context(), owner, repo)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "No generated README for repository")
			return
		}
		h.logger.Error().Err(err).Str("repo", owner+"/"+repo).Msg("README retrieval failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	content = metadata.Strip(content)

	if r.URL.Query().Get("format") == "html" {
		page := h.renderer.Render(owner+"/"+repo, content)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(page))
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{
		"owner":   owner,
		"repo":    repo,
		"content": content,
	})
}
