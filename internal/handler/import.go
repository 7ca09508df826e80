package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"inkwell/internal/config"
	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/httputil"
	binderSvc "inkwell/internal/service/binder"
)

// TransferHandler handles project export and import
type TransferHandler struct {
	projectService svc.ProjectService
	logger         *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(projectService svc.ProjectService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		projectService: projectService,
		logger:         logger,
	}
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Export downloads a project as a self-contained record.
// GET /api/projects/{id}/export?format=json|yaml
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}
	format, err := binderSvc.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, err)
		return
	}

	record, err := h.projectService.ExportProject(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	data, err := binderSvc.EncodeRecord(record, format)
	if err != nil {
		handleError(w, err)
		return
	}

	name := strings.Trim(unsafeFilename.ReplaceAllString(record.Project.Title, "-"), "-")
	if name == "" {
		name = "project"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	httputil.RespondRaw(w, http.StatusOK, format.ContentType(), data)
}

// Import creates a new project from an exported record. The format comes from
// ?format= or, failing that, the Content-Type header.
// POST /api/import
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	format, err := binderSvc.ParseFormat(requestFormat(r))
	if err != nil {
		handleError(w, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxImportBytes))
	if err != nil {
		handleError(w, err)
		return
	}
	record, err := binderSvc.DecodeRecord(data, format)
	if err != nil {
		handleError(w, err)
		return
	}

	project, err := h.projectService.ImportProject(r.Context(), record)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

func requestFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return string(binderSvc.FormatYAML)
	}
	return ""
}
