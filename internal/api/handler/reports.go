package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mhalvorsen/gridline-data/internal/api/respond"
	"github.com/mhalvorsen/gridline-data/internal/audit"
	"github.com/mhalvorsen/gridline-data/internal/cache"
)

// ListReports returns the report artifact names, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	cacheKey := "reports:list"
	ttl := cache.TTLReport

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	names, err := audit.ListReports(h.cfg.ReportsDir)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "LIST_FAILED", "failed to list reports", err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}

	data, err := json.Marshal(map[string]interface{}{"reports": names})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "failed to encode report list")
		return
	}
	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// GetReport returns one report artifact by name.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	// Artifact names are flat; anything path-like is rejected.
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".json") {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_NAME", "invalid report name")
		return
	}

	data, err := os.ReadFile(filepath.Join(h.cfg.ReportsDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No report "+name)
			return
		}
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "READ_FAILED", "failed to read report", err.Error())
		return
	}

	etag := cache.ComputeETag(data)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLReport, false)
}
