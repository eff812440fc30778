package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mordheim-tracker/internal/config"
	"mordheim-tracker/internal/database"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"
	"mordheim-tracker/internal/scenario"
	"mordheim-tracker/internal/service"

	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.NewMemory(zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	nop := zerolog.Nop()
	cfg := &config.Config{
		ScenarioDir:      t.TempDir(),
		DisplayRotation:  15 * time.Second,
		RecentResultsMax: 10,
	}

	campaigns := repository.NewCampaignRepository(db, nop)
	warbands := repository.NewWarbandRepository(db, nop)
	warriors := repository.NewWarriorRepository(db, nop)
	matches := repository.NewMatchRepository(db, nop)
	events := repository.NewEventRepository(db, nop)
	news := repository.NewNewsRepository(db, nop)

	srv := New(
		service.NewCampaignService(campaigns, nop),
		service.NewWarbandService(warbands, warriors, nop),
		service.NewMatchService(matches, events, nop),
		service.NewResolutionService(events, warbands, matches, nop),
		service.NewProgressionService(warbands, nop),
		service.NewBroadcastService(matches, warbands, news, cfg, nop),
		service.NewNewsService(news, nop),
		scenario.New(cfg, nop),
		nop,
	)

	mux := http.NewServeMux()
	srv.Routes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestCampaignLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/campaigns", map[string]string{
		"name":        "City of the Damned",
		"description": "Season one",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created domain.Campaign
	decodeBody(t, resp, &created)
	if created.ID == "" || created.Name != "City of the Damned" {
		t.Fatalf("unexpected campaign: %+v", created)
	}

	get, err := http.Get(ts.URL + "/api/campaigns/" + created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", get.StatusCode)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	// unknown id -> 404
	resp, err := http.Get(ts.URL + "/api/campaigns/missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown campaign, got %d", resp.StatusCode)
	}

	// validation failure -> 400
	bad := postJSON(t, ts.URL+"/api/campaigns", map[string]string{"name": "   "})
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", bad.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, bad, &body)
	if body.Error == "" {
		t.Fatal("expected an error message in the body")
	}

	// malformed JSON -> 400
	malformed, err := http.Post(ts.URL+"/api/campaigns", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer malformed.Body.Close()
	if malformed.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", malformed.StatusCode)
	}

	// traversal-shaped scenario slug -> 400
	slug, err := http.Get(ts.URL + "/api/scenarios/Bad_Slug")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer slug.Body.Close()
	if slug.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad slug, got %d", slug.StatusCode)
	}
}

func TestMatchResolutionFlow(t *testing.T) {
	ts := newTestServer(t)

	var campaign domain.Campaign
	decodeBody(t, postJSON(t, ts.URL+"/api/campaigns", map[string]string{"name": "Flow"}), &campaign)

	var wbA, wbB domain.Warband
	decodeBody(t, postJSON(t, ts.URL+"/api/warbands", map[string]any{
		"campaignId": campaign.ID, "name": "Reiklanders", "treasury": 100,
	}), &wbA)
	decodeBody(t, postJSON(t, ts.URL+"/api/warbands", map[string]any{
		"campaignId": campaign.ID, "name": "Skaven",
	}), &wbB)

	var attacker, defender domain.Warrior
	decodeBody(t, postJSON(t, ts.URL+"/api/warriors", map[string]any{
		"warbandId": wbA.ID, "name": "Aldric", "kind": "hero",
	}), &attacker)
	decodeBody(t, postJSON(t, ts.URL+"/api/warriors", map[string]any{
		"warbandId": wbB.ID, "name": "Skritch", "kind": "henchman",
	}), &defender)

	var match domain.Match
	decodeBody(t, postJSON(t, ts.URL+"/api/matches", map[string]any{
		"match":      map[string]any{"campaignId": campaign.ID, "matchType": "skirmish"},
		"warbandIds": []string{wbA.ID, wbB.ID},
	}), &match)

	var event domain.Event
	decodeBody(t, postJSON(t, fmt.Sprintf("%s/api/matches/%s/events", ts.URL, match.ID), map[string]any{
		"eventType":  "knockdown",
		"warriorId":  attacker.ID,
		"defenderId": defender.ID,
	}), &event)

	resp := postJSON(t, fmt.Sprintf("%s/api/events/%s/resolve", ts.URL, event.ID), map[string]string{
		"injuryType": "dead",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 resolving event, got %d", resp.StatusCode)
	}
	var resolved domain.Event
	decodeBody(t, resp, &resolved)
	if !resolved.Death {
		t.Fatalf("expected lethal resolution, got %+v", resolved)
	}

	// gold from the match lands in the ledger
	gold := postJSON(t, fmt.Sprintf("%s/api/matches/%s/gold", ts.URL, match.ID), map[string]any{
		"warbandId": wbA.ID, "amount": 50,
	})
	var entry domain.WarbandStateChange
	decodeBody(t, gold, &entry)
	if entry.TreasuryAfter != 150 {
		t.Fatalf("expected treasury after of 150, got %d", entry.TreasuryAfter)
	}

	// broadcast assembles without error
	broadcast, err := http.Get(ts.URL + "/api/campaigns/" + campaign.ID + "/broadcast")
	if err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}
	defer broadcast.Body.Close()
	if broadcast.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from broadcast, got %d", broadcast.StatusCode)
	}
}
