package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wjakew/fotofusion-desktop/internal/classify"
	"github.com/wjakew/fotofusion-desktop/internal/config"
	"github.com/wjakew/fotofusion-desktop/internal/history"
	"github.com/wjakew/fotofusion-desktop/internal/report"
	"github.com/wjakew/fotofusion-desktop/internal/session"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

type APIErrorResponse struct {
	Message string `json:"message"`
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIErrorResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, field, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(config.ValidationError{
		Field:   field,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// ProgressUpdate is the websocket event envelope pushed to clients during
// scans, copies, and verifications.
type ProgressUpdate struct {
	Type          string                    `json:"type"`
	Current       int                       `json:"current,omitempty"`
	Total         int                       `json:"total,omitempty"`
	Filename      string                    `json:"filename,omitempty"`
	Destination   string                    `json:"destination,omitempty"`
	Action        types.CopyAction          `json:"action,omitempty"`
	Phase         types.VerifyPhase         `json:"phase,omitempty"`
	CopySummary   *types.CopyResult         `json:"copy_summary,omitempty"`
	VerifySummary *types.VerificationResult `json:"verify_summary,omitempty"`
	ReportPath    string                    `json:"report_path,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

func (s *Server) broadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.hub.broadcast <- data
}

func (s *Server) broadcastProgress(update ProgressUpdate) {
	s.broadcastJSON(update)
}

// Version handler

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": s.version})
}

// Browse handler

type BrowseResponse struct {
	Path    string     `json:"path"`
	Entries []DirEntry `json:"entries"`
}

type DirEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		path = homeDir
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeAPIError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, os.ErrPermission) {
			writeAPIError(w, http.StatusForbidden, err.Error())
			return
		}
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var dirEntries []DirEntry
	for _, entry := range entries {
		if entry.Name()[0] == '.' {
			continue
		}
		dirEntries = append(dirEntries, DirEntry{
			Name:  entry.Name(),
			Path:  filepath.Join(path, entry.Name()),
			IsDir: entry.IsDir(),
		})
	}

	writeJSON(w, BrowseResponse{Path: path, Entries: dirEntries})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, config.DefaultConfig())
}

// Session handlers

type ScanRequest struct {
	Source string `json:"source"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !s.runMu.TryLock() {
		writeAPIError(w, http.StatusConflict, "another run is in progress")
		return
	}

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.runMu.Unlock()
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Source == "" {
		s.runMu.Unlock()
		writeValidationError(w, "source", "source path is required")
		return
	}

	writeJSON(w, map[string]string{"status": "started"})

	go func() {
		defer s.runMu.Unlock()
		defer s.recoverToClients()

		s.mu.Lock()
		defer s.mu.Unlock()

		items, err := s.session.Scan(req.Source, func(p types.ScanProgress) {
			s.broadcastProgress(ProgressUpdate{
				Type:     "scan",
				Current:  p.Current,
				Total:    p.Total,
				Filename: p.Filename,
			})
		})
		if err != nil {
			s.broadcastProgress(ProgressUpdate{Type: "error", Error: err.Error()})
			return
		}

		s.lastSource = req.Source
		s.broadcastProgress(ProgressUpdate{
			Type:    "scan-complete",
			Current: len(items),
			Total:   len(items),
		})
	}()
}

type SessionResponse struct {
	Items    []types.Item         `json:"items"`
	Folders  int                  `json:"folders"`
	Stats    types.ExclusionStats `json:"stats"`
	Settings SettingsResponse     `json:"settings"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, SessionResponse{
		Items:    s.session.Items(),
		Folders:  s.session.Index().FolderCount(),
		Stats:    s.session.ExclusionStats(),
		Settings: s.settingsResponse(),
	})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Clear()
	s.lastSource = ""
	s.windowStart = ""
	s.windowEnd = ""
	writeJSON(w, map[string]string{"status": "ok"})
}

// Settings handlers

type SettingsRequest struct {
	Structure   types.StructurePolicy `json:"structure"`
	DateFormat  types.DateFormat      `json:"date_format"`
	Prefix      string                `json:"prefix"`
	WindowStart string                `json:"window_start"`
	WindowEnd   string                `json:"window_end"`
}

type SettingsResponse struct {
	Structure   types.StructurePolicy `json:"structure"`
	DateFormat  types.DateFormat      `json:"date_format"`
	Prefix      string                `json:"prefix"`
	WindowStart string                `json:"window_start,omitempty"`
	WindowEnd   string                `json:"window_end,omitempty"`
}

func (s *Server) settingsResponse() SettingsResponse {
	settings := s.session.Settings()
	return SettingsResponse{
		Structure:   settings.Structure,
		DateFormat:  settings.DateFormat,
		Prefix:      settings.Prefix,
		WindowStart: s.windowStart,
		WindowEnd:   s.windowEnd,
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, s.settingsResponse())
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := config.Config{WindowStart: req.WindowStart, WindowEnd: req.WindowEnd}
	window, err := cfg.Window()
	if err != nil {
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			writeValidationError(w, validationErr.Field, validationErr.Message)
			return
		}
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings := session.Settings{
		Structure:  req.Structure,
		DateFormat: req.DateFormat,
		Prefix:     req.Prefix,
		Window:     window,
	}
	if settings.Structure == "" {
		settings.Structure = types.StructureByDate
	}
	if settings.DateFormat == "" {
		settings.DateFormat = types.DateFormatYMDHier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.SetSettings(settings)
	s.windowStart = req.WindowStart
	s.windowEnd = req.WindowEnd

	writeJSON(w, s.settingsResponse())
}

// Folder listing

type FolderView struct {
	Key      classify.FolderKey `json:"key"`
	Count    int                `json:"count"`
	Excluded bool               `json:"excluded"`
	Items    []types.Item       `json:"items"`
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.session.Index()
	excl := s.session.Exclusions()

	folders := make([]FolderView, 0, index.FolderCount())
	for _, key := range index.Keys() {
		items := index.Items(key)
		folders = append(folders, FolderView{
			Key:      key,
			Count:    len(items),
			Excluded: excl.IsFolderExcluded(key),
			Items:    items,
		})
	}

	writeJSON(w, folders)
}

// Exclusion handlers

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" {
		writeValidationError(w, "id", "photo id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	excluded := s.session.ToggleItem(req.ID)
	writeJSON(w, map[string]interface{}{
		"id":       req.ID,
		"excluded": excluded,
		"stats":    s.session.ExclusionStats(),
	})
}

func (s *Server) handleToggleFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Key == "" {
		writeValidationError(w, "key", "folder key is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	excluded := s.session.ToggleFolder(classify.FolderKey(req.Key))
	writeJSON(w, map[string]interface{}{
		"key":      req.Key,
		"excluded": excluded,
		"stats":    s.session.ExclusionStats(),
	})
}

func (s *Server) handleExclusionStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, s.session.ExclusionStats())
}

func (s *Server) handleClearExclusions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ClearExclusions()
	writeJSON(w, s.session.ExclusionStats())
}

// Run handlers

type CopyRequest struct {
	Dest             string `json:"dest"`
	PreserveOriginal bool   `json:"preserve_original"`
	WriteReport      bool   `json:"write_report"`
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if !s.runMu.TryLock() {
		writeAPIError(w, http.StatusConflict, "another run is in progress")
		return
	}

	var req CopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.runMu.Unlock()
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Dest == "" {
		s.runMu.Unlock()
		writeValidationError(w, "dest", "destination path is required")
		return
	}

	writeJSON(w, map[string]string{"status": "started"})

	go func() {
		defer s.runMu.Unlock()
		defer s.recoverToClients()

		s.mu.Lock()
		defer s.mu.Unlock()

		result, err := s.session.Copy(req.Dest, req.PreserveOriginal, func(p types.CopyProgress) {
			s.broadcastProgress(ProgressUpdate{
				Type:        "copy",
				Current:     p.Current,
				Total:       p.Total,
				Filename:    p.Filename,
				Destination: p.DestinationPath,
				Action:      p.Action,
			})
		})
		if err != nil {
			s.broadcastProgress(ProgressUpdate{Type: "error", Error: err.Error()})
			return
		}

		update := ProgressUpdate{Type: "copy-complete", CopySummary: &result}

		if req.WriteReport {
			settings := s.session.Settings()
			markdown := report.Generate(
				s.session.Items(),
				s.session.Exclusions(),
				s.session.Index(),
				result,
				report.Options{
					Structure:   settings.Structure,
					DateFormat:  settings.DateFormat,
					Prefix:      settings.Prefix,
					Destination: req.Dest,
				},
			)
			path, err := report.Write(markdown, req.Dest)
			if err != nil {
				s.logger.Error("failed to write report", err)
			} else {
				update.ReportPath = path
			}
		}

		s.appendHistory(history.Entry{
			Kind:        "copy",
			Source:      s.lastSource,
			Destination: req.Dest,
			Structure:   s.session.Settings().Structure,
			DateFormat:  s.session.Settings().DateFormat,
			Copy:        &result,
		})

		s.broadcastProgress(update)
	}()
}

type VerifyRequest struct {
	Dest             string           `json:"dest"`
	PreserveOriginal bool             `json:"preserve_original"`
	Mode             types.VerifyMode `json:"mode"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if !s.runMu.TryLock() {
		writeAPIError(w, http.StatusConflict, "another run is in progress")
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.runMu.Unlock()
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Dest == "" {
		s.runMu.Unlock()
		writeValidationError(w, "dest", "destination path is required")
		return
	}
	if req.Mode == "" {
		req.Mode = types.VerifySize
	}

	writeJSON(w, map[string]string{"status": "started"})

	go func() {
		defer s.runMu.Unlock()
		defer s.recoverToClients()

		s.mu.Lock()
		defer s.mu.Unlock()

		result, err := s.session.Verify(req.Dest, req.PreserveOriginal, req.Mode, func(p types.VerifyProgress) {
			s.broadcastProgress(ProgressUpdate{
				Type:     "verify",
				Current:  p.Current,
				Total:    p.Total,
				Filename: p.Filename,
				Phase:    p.Phase,
			})
		})
		if err != nil {
			s.broadcastProgress(ProgressUpdate{Type: "error", Error: err.Error()})
			return
		}

		s.appendHistory(history.Entry{
			Kind:         "verify",
			Source:       s.lastSource,
			Destination:  req.Dest,
			Verification: &result,
		})

		s.broadcastProgress(ProgressUpdate{Type: "verify-complete", VerifySummary: &result})
	}()
}

func (s *Server) appendHistory(e history.Entry) {
	path, err := history.DefaultPath()
	if err != nil {
		s.logger.Error("failed to locate history file", err)
		return
	}

	store, err := history.Load(path)
	if err != nil {
		s.logger.Error("failed to load run history", err)
		return
	}

	if err := store.Append(e); err != nil {
		s.logger.Error("failed to record run history", err)
	}
}

func (s *Server) recoverToClients() {
	if r := recover(); r != nil {
		s.broadcastProgress(ProgressUpdate{
			Type:  "error",
			Error: fmt.Sprintf("internal error: %v", r),
		})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
			if limit > 100 {
				limit = 100
			} else if limit < 1 {
				limit = 20
			}
		}
	}

	path, err := history.DefaultPath()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	store, err := history.Load(path)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, store.Entries(limit))
}

// Preset handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	ps, err := config.NewPresetStore()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	presets, err := ps.List()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, presets)
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var preset types.Preset
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	ps, err := config.NewPresetStore()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	saved, err := ps.Save(preset)
	if err != nil {
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			writeValidationError(w, validationErr.Field, validationErr.Message)
			return
		}
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, saved)
}

func (s *Server) handleUsePreset(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeValidationError(w, "id", "preset id is required")
		return
	}

	ps, err := config.NewPresetStore()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	preset, found, err := ps.Get(id)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeAPIError(w, http.StatusNotFound, "preset not found: "+id)
		return
	}

	if err := ps.TouchLastUsed(id); err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, config.PresetToConfig(preset))
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeValidationError(w, "id", "preset id is required")
		return
	}

	ps, err := config.NewPresetStore()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	found, err := ps.Delete(id)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeAPIError(w, http.StatusNotFound, "preset not found: "+id)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleExportPresets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs  []string `json:"ids"`
		Path string   `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Path == "" {
		writeValidationError(w, "path", "export path is required")
		return
	}

	ps, err := config.NewPresetStore()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := ps.Export(req.IDs, req.Path); err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleImportPresets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Path == "" {
		writeValidationError(w, "path", "import path is required")
		return
	}

	ps, err := config.NewPresetStore()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := ps.Import(req.Path)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, result)
}
