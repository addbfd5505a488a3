package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mhalvorsen/gridline-data/internal/api/respond"
	"github.com/mhalvorsen/gridline-data/internal/cache"
	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/config"
)

type resolveResponse struct {
	RawName    string            `json:"rawName"`
	League     string            `json:"league"`
	TeamID     *string           `json:"teamId"`
	Pass       string            `json:"pass"`
	Candidates []canon.Candidate `json:"candidates,omitempty"`
}

// Resolve maps a free-text provider name onto a canonical team id.
// A no-match is a 200 with a null teamId, not an error.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "name query parameter is required")
		return
	}
	league := r.URL.Query().Get("league")
	if league == "" {
		league = "NCAAF"
	}
	if _, ok := config.LeagueRegistry[league]; !ok {
		respond.WriteError(w, http.StatusBadRequest, "UNKNOWN_LEAGUE", "unsupported league "+league)
		return
	}

	o := h.resolver.Resolve(name, league)
	resp := resolveResponse{
		RawName:    name,
		League:     league,
		Pass:       o.Pass.String(),
		Candidates: o.Candidates,
	}
	if o.Matched() {
		resp.TeamID = &o.TeamID
	}
	respond.WriteJSONObject(w, http.StatusOK, resp)
}

type matchResponse struct {
	GameID   *int64  `json:"gameId"`
	Strategy string  `json:"strategy"`
	Reason   string  `json:"reason,omitempty"`
	DayDelta float64 `json:"dayDelta,omitempty"`
}

// MatchGame maps (season, week, home, away, optional eventTime) onto a
// canonical game. Like Resolve, a miss is a 200 with a null gameId.
func (h *Handler) MatchGame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	season, err := strconv.Atoi(q.Get("season"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON", "season must be an integer")
		return
	}
	week, err := strconv.Atoi(q.Get("week"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_WEEK", "week must be an integer")
		return
	}
	home := q.Get("home")
	away := q.Get("away")
	if home == "" || away == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_TEAM", "home and away query parameters are required")
		return
	}

	var eventTime time.Time
	if raw := q.Get("eventTime"); raw != "" {
		eventTime, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_EVENT_TIME", "eventTime must be RFC 3339")
			return
		}
	}

	o, err := h.matcher.Lookup(r.Context(), season, week, home, away, eventTime)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "LOOKUP_FAILED", "game lookup failed", err.Error())
		return
	}

	resp := matchResponse{
		Strategy: o.Strategy.String(),
		Reason:   string(o.Reason),
	}
	if o.Matched() {
		resp.GameID = &o.GameID
		resp.DayDelta = o.Delta.Hours() / 24
	}
	respond.WriteJSONObject(w, http.StatusOK, resp)
}

// GetTeam returns the canonical row for one team id.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID := strings.ToLower(pathParam(r, "teamID"))
	league := r.URL.Query().Get("league")
	if league == "" {
		league = "NCAAF"
	}

	cacheKey := fmt.Sprintf("team:%s:%s", league, teamID)
	ttl := cache.TTLTeam

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var team struct {
		ID     string `json:"id"`
		School string `json:"school"`
		Mascot string `json:"mascot"`
		League string `json:"league"`
	}
	err := h.pool.QueryRow(r.Context(), "team_by_id", teamID, league).Scan(&team.ID, &team.School, &team.Mascot)
	if err != nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No team "+teamID)
		return
	}
	team.League = league

	data, err := json.Marshal(team)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "failed to encode team")
		return
	}
	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

func pathParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
