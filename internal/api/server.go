package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"notes-generator/internal/models"
	"notes-generator/internal/services"
)

const maxMultipartMemory = 8 << 20 // 8 MB

type Server struct {
	mux       *http.ServeMux
	pipeline  *services.PipelineService
	materials *services.MaterialService
	jobs      *JobManager
	aiReady   bool
}

// MaterialResult is the JSON view of a generated material.
type MaterialResult struct {
	MaterialID   int64    `json:"materialId"`
	Deck         string   `json:"deck,omitempty"`
	MaterialType string   `json:"materialType"`
	Difficulty   string   `json:"difficulty"`
	WeakSpots    []string `json:"weakSpots,omitempty"`
	FileName     string   `json:"fileName"`
	Pages        int      `json:"pages"`
	Words        int      `json:"words"`
	DownloadURL  string   `json:"downloadUrl"`
	CreatedAt    string   `json:"createdAt"`
}

func NewServer(pipeline *services.PipelineService, materials *services.MaterialService, aiReady bool) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		pipeline:  pipeline,
		materials: materials,
		jobs:      NewJobManager(),
		aiReady:   aiReady,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/material-types", s.handleMaterialTypes)
	s.mux.HandleFunc("/api/materials", s.handleMaterials)
	s.mux.HandleFunc("/api/materials/jobs", s.handleJobs)
	s.mux.HandleFunc("/api/materials/jobs/", s.handleJobStatus)
	s.mux.HandleFunc("/api/materials/", s.handleMaterialActions)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"ai_configured": s.aiReady,
	})
}

func (s *Server) handleMaterialTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	specs := models.AllMaterialTypes()
	out := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		out = append(out, map[string]any{
			"key":         spec.Key,
			"name":        spec.Name,
			"description": spec.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"material_types": out})
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListMaterials(w, r)
	case http.MethodPost:
		s.handleGenerateMaterial(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.materials.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]MaterialResult, 0, len(materials))
	for _, m := range materials {
		out = append(out, materialResult(&m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"materials": out})
}

// handleGenerateMaterial runs the pipeline synchronously and streams the
// finished PDF back as an attachment.
func (s *Server) handleGenerateMaterial(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if form := r.MultipartForm; form != nil {
		defer form.RemoveAll()
	}

	file, params, err := generationParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	src, err := file.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer src.Close()
	params.File = src

	material, err := s.pipeline.Generate(r.Context(), params, nil)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", material.FileName))
	http.ServeFile(w, r, material.StoredPath)
}

func (s *Server) handleMaterialActions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/materials/")
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "download" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	material, err := s.materials.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", material.FileName))
	http.ServeFile(w, r, material.StoredPath)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/materials/jobs" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	form := r.MultipartForm
	if form == nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, params, err := generationParams(r)
	if err != nil {
		form.RemoveAll()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// net/http deletes multipart spill files once the handler returns, so
	// the upload is copied somewhere stable before the job starts.
	deckPath, err := stashUpload(file)
	form.RemoveAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot store uploaded file")
		return
	}

	jobID, snapshot := s.jobs.CreateJob(file.Filename)
	go s.runGenerationJob(context.Background(), jobID, deckPath, params)

	writeJSON(w, http.StatusAccepted, snapshot)
}

// stashUpload copies the uploaded deck into a temp file that outlives the
// request. The caller owns the returned path.
func stashUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "deck-*.pptx")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/materials/jobs/")
	jobID = strings.Trim(jobID, "/")
	if jobID == "" {
		http.NotFound(w, r)
		return
	}

	job, ok := s.jobs.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) runGenerationJob(ctx context.Context, jobID, deckPath string, params services.GenerateMaterialInput) {
	defer os.Remove(deckPath)

	s.jobs.MarkProcessing(jobID)

	src, err := os.Open(deckPath)
	if err != nil {
		s.jobs.MarkFailed(jobID, "cannot read uploaded file")
		return
	}
	defer src.Close()
	params.File = src

	progress := func(step, message string, current, total int) {
		s.jobs.UpdateProgress(jobID, step, message, current, total)
	}
	material, err := s.pipeline.Generate(ctx, params, progress)
	if err != nil {
		s.jobs.MarkFailed(jobID, err.Error())
		return
	}
	s.jobs.MarkComplete(jobID, materialResult(material))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if form := r.MultipartForm; form != nil {
		defer form.RemoveAll()
	}

	file, err := deckFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	src, err := file.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer src.Close()

	extraction, err := s.pipeline.Analyze(src)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	topics := make([]string, 0, len(extraction.Slides))
	for _, slide := range extraction.Slides {
		if slide.Title != "" {
			topics = append(topics, slide.Title)
		}
	}
	if len(topics) > 10 {
		topics = topics[:10]
	}
	preview := extraction.FullText
	if len(preview) > 500 {
		preview = preview[:500]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_slides":    extraction.TotalSlides,
		"main_topics":     topics,
		"content_preview": preview,
	})
}

// generationParams pulls the deck file and the generation form fields out of
// a parsed multipart request. The caller opens the file itself.
func generationParams(r *http.Request) (*multipart.FileHeader, services.GenerateMaterialInput, error) {
	file, err := deckFile(r)
	if err != nil {
		return nil, services.GenerateMaterialInput{}, err
	}

	materialType := r.FormValue("material_type")
	if materialType == "" {
		materialType = string(models.MaterialComprehensive)
	}
	difficulty := r.FormValue("difficulty_level")
	if difficulty == "" {
		difficulty = string(models.DifficultyIntermediate)
	}

	return file, services.GenerateMaterialInput{
		FileName:               file.Filename,
		MaterialType:           materialType,
		Difficulty:             difficulty,
		WeakSpots:              models.SplitWeakSpots(r.FormValue("weak_spots")),
		AdditionalInstructions: r.FormValue("additional_instructions"),
	}, nil
}

func deckFile(r *http.Request) (*multipart.FileHeader, error) {
	form := r.MultipartForm
	if form == nil || len(form.File["file"]) == 0 {
		return nil, errors.New("no file uploaded")
	}
	file := form.File["file"][0]
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pptx") {
		return nil, errors.New("only .pptx files are supported")
	}
	return file, nil
}

// errorStatus maps pipeline failures onto HTTP codes: bad decks are the
// client's fault, model failures are upstream, render failures are ours.
func errorStatus(err error) int {
	var extractionErr *services.ExtractionError
	var generationErr *services.GenerationError
	switch {
	case errors.As(err, &extractionErr):
		return http.StatusBadRequest
	case errors.As(err, &generationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func materialResult(m *models.Material) MaterialResult {
	result := MaterialResult{
		MaterialID:   m.ID,
		MaterialType: m.MaterialType,
		Difficulty:   m.Difficulty,
		WeakSpots:    m.WeakSpotList(),
		FileName:     m.FileName,
		Pages:        m.PageCount,
		Words:        m.WordCount,
		DownloadURL:  fmt.Sprintf("/api/materials/%d/download", m.ID),
		CreatedAt:    m.CreatedAt.Format(timeLayout),
	}
	if m.DeckName.Valid {
		result.Deck = m.DeckName.String
	}
	return result
}

const timeLayout = time.RFC3339

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
