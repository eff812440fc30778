package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"mordheim-tracker/internal/repository"
	"mordheim-tracker/internal/scenario"
	"mordheim-tracker/internal/service"

	"github.com/rs/zerolog"
)

// Server is the JSON operation surface the presentation layer consumes.
type Server struct {
	campaignSvc    *service.CampaignService
	warbandSvc     *service.WarbandService
	matchSvc       *service.MatchService
	resolutionSvc  *service.ResolutionService
	progressionSvc *service.ProgressionService
	broadcastSvc   *service.BroadcastService
	newsSvc        *service.NewsService
	scenarios      *scenario.Store
	logger         zerolog.Logger
}

func New(
	campaignSvc *service.CampaignService,
	warbandSvc *service.WarbandService,
	matchSvc *service.MatchService,
	resolutionSvc *service.ResolutionService,
	progressionSvc *service.ProgressionService,
	broadcastSvc *service.BroadcastService,
	newsSvc *service.NewsService,
	scenarios *scenario.Store,
	logger zerolog.Logger,
) *Server {
	return &Server{
		campaignSvc:    campaignSvc,
		warbandSvc:     warbandSvc,
		matchSvc:       matchSvc,
		resolutionSvc:  resolutionSvc,
		progressionSvc: progressionSvc,
		broadcastSvc:   broadcastSvc,
		newsSvc:        newsSvc,
		scenarios:      scenarios,
		logger:         logger,
	}
}

// Routes registers every operation on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/campaigns", s.listCampaigns)
	mux.HandleFunc("POST /api/campaigns", s.createCampaign)
	mux.HandleFunc("GET /api/campaigns/{id}", s.getCampaign)
	mux.HandleFunc("PUT /api/campaigns/{id}", s.updateCampaign)
	mux.HandleFunc("GET /api/campaigns/{id}/warbands", s.listWarbands)
	mux.HandleFunc("GET /api/campaigns/{id}/matches", s.listMatches)
	mux.HandleFunc("GET /api/campaigns/{id}/standings", s.getStandings)
	mux.HandleFunc("GET /api/campaigns/{id}/progression", s.getProgression)
	mux.HandleFunc("GET /api/campaigns/{id}/news", s.listNews)
	mux.HandleFunc("GET /api/campaigns/{id}/broadcast", s.getBroadcast)

	mux.HandleFunc("POST /api/warbands", s.createWarband)
	mux.HandleFunc("GET /api/warbands/{id}", s.getWarband)
	mux.HandleFunc("PUT /api/warbands/{id}", s.updateWarband)
	mux.HandleFunc("DELETE /api/warbands/{id}", s.deleteWarband)
	mux.HandleFunc("POST /api/warbands/{id}/treasury", s.adjustTreasury)
	mux.HandleFunc("POST /api/warbands/{id}/experience", s.adjustExperience)

	mux.HandleFunc("POST /api/warriors", s.createWarrior)
	mux.HandleFunc("GET /api/warriors/{id}", s.getWarrior)
	mux.HandleFunc("PUT /api/warriors/{id}", s.updateWarrior)

	mux.HandleFunc("POST /api/matches", s.createMatch)
	mux.HandleFunc("GET /api/matches/{id}", s.getMatch)
	mux.HandleFunc("PUT /api/matches/{id}", s.updateMatch)
	mux.HandleFunc("POST /api/matches/{id}/gold", s.recordMatchGold)
	mux.HandleFunc("POST /api/matches/{id}/experience", s.recordMatchExperience)
	mux.HandleFunc("POST /api/matches/{id}/events", s.createEvent)
	mux.HandleFunc("POST /api/matches/{id}/casualties", s.addCasualty)

	mux.HandleFunc("POST /api/events/{id}/resolve", s.resolveEvent)

	mux.HandleFunc("POST /api/news", s.createNews)
	mux.HandleFunc("PUT /api/news/{id}", s.updateNews)
	mux.HandleFunc("DELETE /api/news/{id}", s.deleteNews)

	mux.HandleFunc("GET /api/scenarios", s.listScenarios)
	mux.HandleFunc("GET /api/scenarios/{slug}", s.getScenario)
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalid), errors.Is(err, scenario.ErrBadSlug):
		status = http.StatusBadRequest
	}
	s.respond(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
