package server

import (
	"net/http"

	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"
)

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaignSvc.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, campaigns)
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var c domain.Campaign
	if !s.decode(w, r, &c) {
		return
	}
	created, err := s.campaignSvc.Create(r.Context(), &c)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) getCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.campaignSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, c)
}

func (s *Server) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var c domain.Campaign
	if !s.decode(w, r, &c) {
		return
	}
	c.ID = r.PathValue("id")
	updated, err := s.campaignSvc.Update(r.Context(), &c)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}

func (s *Server) listWarbands(w http.ResponseWriter, r *http.Request) {
	warbands, err := s.warbandSvc.ListByCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, warbands)
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matchSvc.ListByCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, matches)
}

func (s *Server) getStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.matchSvc.Standings(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, standings)
}

func (s *Server) getProgression(w http.ResponseWriter, r *http.Request) {
	series, err := s.progressionSvc.ByCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, series)
}

func (s *Server) listNews(w http.ResponseWriter, r *http.Request) {
	news, err := s.newsSvc.ListByCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, news)
}

func (s *Server) getBroadcast(w http.ResponseWriter, r *http.Request) {
	b, err := s.broadcastSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

func (s *Server) createWarband(w http.ResponseWriter, r *http.Request) {
	var wb domain.Warband
	if !s.decode(w, r, &wb) {
		return
	}
	created, err := s.warbandSvc.Create(r.Context(), &wb)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) getWarband(w http.ResponseWriter, r *http.Request) {
	detail, err := s.warbandSvc.GetDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, detail)
}

func (s *Server) updateWarband(w http.ResponseWriter, r *http.Request) {
	var wb domain.Warband
	if !s.decode(w, r, &wb) {
		return
	}
	wb.ID = r.PathValue("id")
	updated, err := s.warbandSvc.Update(r.Context(), &wb)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}

func (s *Server) deleteWarband(w http.ResponseWriter, r *http.Request) {
	if err := s.warbandSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusNoContent, nil)
}

// adjustmentRequest is the body for manual treasury/experience deltas.
type adjustmentRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) adjustTreasury(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if !s.decode(w, r, &req) {
		return
	}
	entry, err := s.warbandSvc.AdjustTreasury(r.Context(), r.PathValue("id"), req.Amount, req.Description)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, entry)
}

func (s *Server) adjustExperience(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if !s.decode(w, r, &req) {
		return
	}
	entry, err := s.warbandSvc.AdjustExperience(r.Context(), r.PathValue("id"), req.Amount, req.Description)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, entry)
}

func (s *Server) createWarrior(w http.ResponseWriter, r *http.Request) {
	var wr domain.Warrior
	if !s.decode(w, r, &wr) {
		return
	}
	created, err := s.warbandSvc.CreateWarrior(r.Context(), &wr)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) getWarrior(w http.ResponseWriter, r *http.Request) {
	wr, err := s.warbandSvc.GetWarrior(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, wr)
}

func (s *Server) updateWarrior(w http.ResponseWriter, r *http.Request) {
	var wr domain.Warrior
	if !s.decode(w, r, &wr) {
		return
	}
	wr.ID = r.PathValue("id")
	updated, err := s.warbandSvc.UpdateWarrior(r.Context(), &wr)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var p repository.CreateMatchParams
	if !s.decode(w, r, &p) {
		return
	}
	created, err := s.matchSvc.Create(r.Context(), p)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	detail, err := s.matchSvc.GetDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, detail)
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	var m domain.Match
	if !s.decode(w, r, &m) {
		return
	}
	m.ID = r.PathValue("id")
	updated, err := s.matchSvc.Update(r.Context(), &m)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}

// matchRewardRequest credits a warband with gold or experience won in the
// match named in the path.
type matchRewardRequest struct {
	WarbandID   string `json:"warbandId"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) recordMatchGold(w http.ResponseWriter, r *http.Request) {
	var req matchRewardRequest
	if !s.decode(w, r, &req) {
		return
	}
	entry, err := s.resolutionSvc.RecordMatchGold(r.Context(), req.WarbandID, r.PathValue("id"), req.Amount, req.Description)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, entry)
}

func (s *Server) recordMatchExperience(w http.ResponseWriter, r *http.Request) {
	var req matchRewardRequest
	if !s.decode(w, r, &req) {
		return
	}
	entry, err := s.resolutionSvc.RecordMatchExperience(r.Context(), req.WarbandID, r.PathValue("id"), req.Amount, req.Description)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, entry)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var e domain.Event
	if !s.decode(w, r, &e) {
		return
	}
	e.MatchID = r.PathValue("id")
	created, err := s.resolutionSvc.CreateEvent(r.Context(), &e)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) addCasualty(w http.ResponseWriter, r *http.Request) {
	var c domain.Casualty
	if !s.decode(w, r, &c) {
		return
	}
	c.MatchID = r.PathValue("id")
	created, err := s.resolutionSvc.AddCasualty(r.Context(), &c)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

type resolveRequest struct {
	InjuryType domain.InjuryType `json:"injuryType"`
}

func (s *Server) resolveEvent(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	resolved, err := s.resolutionSvc.ResolveEvent(r.Context(), r.PathValue("id"), req.InjuryType)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, resolved)
}

func (s *Server) createNews(w http.ResponseWriter, r *http.Request) {
	var n domain.CustomNewsItem
	if !s.decode(w, r, &n) {
		return
	}
	created, err := s.newsSvc.Create(r.Context(), &n)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) updateNews(w http.ResponseWriter, r *http.Request) {
	var n domain.CustomNewsItem
	if !s.decode(w, r, &n) {
		return
	}
	n.ID = r.PathValue("id")
	updated, err := s.newsSvc.Update(r.Context(), &n)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}

func (s *Server) deleteNews(w http.ResponseWriter, r *http.Request) {
	if err := s.newsSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	slugs, err := s.scenarios.List()
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, slugs)
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scenarios.Render(r.PathValue("slug"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, sc)
}
