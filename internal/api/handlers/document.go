package handlers

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/services"
)

// ExtractFunc turns an uploaded document into raw text.
type ExtractFunc func(filename string, r io.Reader) (string, error)

type DocumentHandler struct {
	Docs    *services.DocumentService
	Sync    *services.SyncService
	Extract ExtractFunc
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, "get document", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DocumentResponse{Paragraphs: doc})
}

func (h *DocumentHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req dto.DocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Paragraphs == nil {
		writeError(w, r, http.StatusBadRequest, "paragraphs is required")
		return
	}

	if err := h.Docs.Replace(r.Context(), req.Paragraphs); err != nil {
		writeServiceError(w, r, "replace document", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DocumentResponse{Paragraphs: req.Paragraphs})
}

func (h *DocumentHandler) UpdateParagraph(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "index must be a number")
		return
	}

	var req dto.ParagraphRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.Docs.UpdateParagraph(r.Context(), idx, req.Text)
	if err != nil {
		writeServiceError(w, r, "update paragraph", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DocumentResponse{Paragraphs: doc})
}

func (h *DocumentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.Reset(r.Context())
	if err != nil {
		writeServiceError(w, r, "reset document", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DocumentResponse{Paragraphs: doc})
}

func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, "export document", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="reiseplan.txt"`)
	writeText(w, http.StatusOK, services.ExportDocument(doc))
}

// Import replaces the document with uploaded content: a plain text body or
// a multipart "file" field holding a .txt, .md, .pdf or .docx document.
func (h *DocumentHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	var (
		raw       string
		extracted bool
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "multipart field \"file\" is required")
			return
		}
		defer file.Close()

		if h.Extract == nil {
			writeError(w, r, http.StatusUnsupportedMediaType, "file upload not supported")
			return
		}
		raw, err = h.Extract(header.Filename, file)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		extracted = true
	} else {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "could not read body")
			return
		}
		raw = string(b)
	}

	// Extracted files carry layout whitespace; exported text is taken as is.
	doc := services.ImportDocument(raw)
	if extracted {
		doc = services.NormalizeParagraphs(raw)
	}
	if len(doc) == 0 {
		writeError(w, r, http.StatusBadRequest, "document is empty")
		return
	}
	if err := h.Docs.Replace(r.Context(), doc); err != nil {
		writeServiceError(w, r, "import document", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DocumentResponse{Paragraphs: doc})
}

// Push sends the current document to the remote endpoint and relays its reply.
func (h *DocumentHandler) Push(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Sync.PushDocument(r.Context())
	if err != nil {
		writeServiceError(w, r, "push document", err)
		return
	}
	status := http.StatusOK
	if !resp.Success() {
		status = http.StatusBadGateway
	}
	writeJSON(w, r, status, resp)
}
