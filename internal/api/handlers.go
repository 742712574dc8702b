package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/cache"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/query"
)

// AnalyticsHandler serves read-only analytics endpoints backed by the
// query service, with a response cache in front.
type AnalyticsHandler struct {
	svc      *query.Service
	cache    cache.Cache
	congress int
	logger   *logrus.Logger
}

// NewAnalyticsHandler creates the handler. cache may be nil to disable
// response caching.
func NewAnalyticsHandler(svc *query.Service, c cache.Cache, congress int, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, cache: c, congress: congress, logger: logger}
}

// errorResponse is the stable error shape for 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

func (h *AnalyticsHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; nothing useful left to do.
		h.logger.WithError(err).Warn("encode response")
	}
}

func (h *AnalyticsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Error: message})
}

// congressParam reads ?congress= and falls back to the configured
// default. Malformed values are ignored, not rejected.
func (h *AnalyticsHandler) congressParam(r *http.Request) int {
	if raw := r.URL.Query().Get("congress"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return h.congress
}

// limitParam reads ?limit=, ignoring malformed or non-positive values.
func limitParam(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// cached runs fn through the response cache. Cache failures degrade to a
// direct read; they never fail the request.
func cached[T any](ctx context.Context, h *AnalyticsHandler, key string, fn func() (T, error)) (T, error) {
	if h.cache == nil {
		return fn()
	}
	var hit T
	ok, err := h.cache.Get(ctx, key, &hit)
	if err != nil {
		h.logger.WithError(err).WithField("key", key).Warn("cache read failed")
	} else if ok {
		return hit, nil
	}
	value, err := fn()
	if err != nil {
		return value, err
	}
	if err := h.cache.Set(ctx, key, value); err != nil {
		h.logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return value, nil
}

type partyUnityResponse struct {
	Congress   int                      `json:"congress"`
	PartyUnity map[models.Party]float64 `json:"party_unity"`
}

// PartyUnity handles GET /api/v1/analytics/party-unity.
func (h *AnalyticsHandler) PartyUnity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	congress := h.congressParam(r)
	key := cache.Key("party-unity", strconv.Itoa(congress))

	resp, err := cached(ctx, h, key, func() (partyUnityResponse, error) {
		scores, err := h.svc.PartyUnityScores(ctx, congress)
		if err != nil {
			return partyUnityResponse{}, err
		}
		return partyUnityResponse{Congress: congress, PartyUnity: scores}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("party unity query failed")
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

type votePatternsResponse struct {
	Congress     int                       `json:"congress"`
	VotePatterns models.VotePatternSummary `json:"vote_patterns"`
}

// VotePatterns handles GET /api/v1/analytics/vote-patterns.
func (h *AnalyticsHandler) VotePatterns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	congress := h.congressParam(r)
	key := cache.Key("vote-patterns", strconv.Itoa(congress))

	resp, err := cached(ctx, h, key, func() (votePatternsResponse, error) {
		patterns, err := h.svc.VotePatterns(ctx, congress)
		if err != nil {
			return votePatternsResponse{}, err
		}
		return votePatternsResponse{Congress: congress, VotePatterns: patterns}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("vote patterns query failed")
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

type mavericksResponse struct {
	Congress  int                    `json:"congress"`
	Mavericks []models.MaverickEntry `json:"mavericks"`
}

// Mavericks handles GET /api/v1/analytics/mavericks.
func (h *AnalyticsHandler) Mavericks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	congress := h.congressParam(r)
	limit := limitParam(r, 10)
	key := cache.Key("mavericks", strconv.Itoa(congress), strconv.Itoa(limit))

	resp, err := cached(ctx, h, key, func() (mavericksResponse, error) {
		entries, err := h.svc.Mavericks(ctx, congress, limit)
		if err != nil {
			return mavericksResponse{}, err
		}
		return mavericksResponse{Congress: congress, Mavericks: entries}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("mavericks query failed")
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

type divisiveVotesResponse struct {
	Congress      int                   `json:"congress"`
	DivisiveVotes []models.DivisiveVote `json:"divisive_votes"`
}

// DivisiveVotes handles GET /api/v1/analytics/divisive-votes.
func (h *AnalyticsHandler) DivisiveVotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	congress := h.congressParam(r)
	limit := limitParam(r, 5)
	key := cache.Key("divisive-votes", strconv.Itoa(congress), strconv.Itoa(limit))

	resp, err := cached(ctx, h, key, func() (divisiveVotesResponse, error) {
		votes, err := h.svc.DivisiveVotes(ctx, congress, limit)
		if err != nil {
			return divisiveVotesResponse{}, err
		}
		return divisiveVotesResponse{Congress: congress, DivisiveVotes: votes}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("divisive votes query failed")
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

type trendsResponse struct {
	Congress int                 `json:"congress"`
	Trends   []models.TrendPoint `json:"trends"`
}

// Trends handles GET /api/v1/analytics/trends.
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	congress := h.congressParam(r)
	key := cache.Key("trends", strconv.Itoa(congress))

	resp, err := cached(ctx, h, key, func() (trendsResponse, error) {
		trends, err := h.svc.TemporalTrends(ctx, congress)
		if err != nil {
			return trendsResponse{}, err
		}
		return trendsResponse{Congress: congress, Trends: trends}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("trends query failed")
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// MemberProfile handles GET /api/v1/analytics/members/{memberID}.
func (h *AnalyticsHandler) MemberProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	congress := h.congressParam(r)
	memberID := chi.URLParam(r, "memberID")
	key := cache.Key("member", strconv.Itoa(congress), memberID)

	profile, err := cached(ctx, h, key, func() (*models.MemberProfile, error) {
		return h.svc.MemberProfile(ctx, congress, memberID)
	})
	if errors.Is(err, query.ErrMemberNotFound) {
		h.respondError(w, http.StatusNotFound, "member not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("member profile query failed")
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondJSON(w, http.StatusOK, profile)
}

// Health handles GET /health.
func (h *AnalyticsHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
