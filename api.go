package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MixinNetwork/ipo/asset"
	"github.com/MixinNetwork/ipo/cas"
	"github.com/MixinNetwork/ipo/registry"
	"github.com/MixinNetwork/ipo/work"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Server exposes the registration surface over HTTP. There is
// deliberately no list-all-works route, discovery belongs to a future
// registry standard.
type Server struct {
	registry   *registry.Registry
	strictURIs bool
	listen     string
}

func NewServer(reg *registry.Registry, conf *registry.Configuration) *Server {
	return &Server{
		registry:   reg,
		strictURIs: conf.Registry.StrictURIs,
		listen:     conf.API.Listen,
	}
}

func (s *Server) ListenAndServe() error {
	server := &http.Server{
		Addr:         s.listen,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/works", s.registerWork).Methods(http.MethodPost)
	router.HandleFunc("/works/{id}", s.getWork).Methods(http.MethodGet)
	router.HandleFunc("/works/{id}/royalty-tokens", s.getRoyaltyTokens).Methods(http.MethodGet)
	router.HandleFunc("/works/{id}/metadata", s.getMetadata).Methods(http.MethodGet)
	router.HandleFunc("/works/{id}/metadata", s.changeMetadata).Methods(http.MethodPost)
	router.HandleFunc("/works/{id}/ledger", s.getLedger).Methods(http.MethodGet)
	router.HandleFunc("/works/{id}/capabilities", s.getCapabilities).Methods(http.MethodGet)
	router.HandleFunc("/works/{id}/events", s.getWorkEvents).Methods(http.MethodGet)
	router.HandleFunc("/assets/{id}", s.getAsset).Methods(http.MethodGet)
	router.HandleFunc("/assets/{id}/balance", s.getAssetBalance).Methods(http.MethodGet)
	router.HandleFunc("/assets/{id}/transfers", s.transferAsset).Methods(http.MethodPost)
	router.HandleFunc("/deeds/{id}", s.getDeed).Methods(http.MethodGet)
	router.HandleFunc("/deeds/{id}/transfers", s.transferDeed).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return router
}

type workView struct {
	ID            string        `json:"id"`
	Metadata      work.Metadata `json:"metadata"`
	Ledger        string        `json:"ledger"`
	RoyaltyTokens []string      `json:"royalty_tokens"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func renderWork(w *work.Work) workView {
	return workView{
		ID:            w.ID,
		Metadata:      w.WorkMetadata(),
		Ledger:        w.WorkLedger(),
		RoyaltyTokens: w.RoyaltyRightsTokens(),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func (s *Server) registerWork(rw http.ResponseWriter, r *http.Request) {
	var req work.RegistrationRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		renderError(rw, http.StatusBadRequest, err)
		return
	}
	if s.strictURIs {
		err = cas.CheckPair(req.Metadata)
		if err != nil {
			renderError(rw, http.StatusBadRequest, err)
			return
		}
	}
	w, err := s.registry.RegisterWork(r.Context(), &req)
	if err != nil {
		renderOperationError(rw, err)
		return
	}
	registrationsTotal.Inc()
	renderJSON(rw, http.StatusCreated, renderWork(w))
}

func (s *Server) getWork(rw http.ResponseWriter, r *http.Request) {
	w, err := s.readWork(rw, r)
	if w == nil || err != nil {
		return
	}
	renderJSON(rw, http.StatusOK, renderWork(w))
}

func (s *Server) getRoyaltyTokens(rw http.ResponseWriter, r *http.Request) {
	w, err := s.readWork(rw, r)
	if w == nil || err != nil {
		return
	}
	renderJSON(rw, http.StatusOK, map[string]interface{}{
		"royalty_tokens": w.RoyaltyRightsTokens(),
	})
}

func (s *Server) getMetadata(rw http.ResponseWriter, r *http.Request) {
	w, err := s.readWork(rw, r)
	if w == nil || err != nil {
		return
	}
	renderJSON(rw, http.StatusOK, w.WorkMetadata())
}

func (s *Server) changeMetadata(rw http.ResponseWriter, r *http.Request) {
	var body struct {
		Caller   string        `json:"caller"`
		Metadata work.Metadata `json:"metadata"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		renderError(rw, http.StatusBadRequest, err)
		return
	}
	id := mux.Vars(r)["id"]
	evt, err := s.registry.ChangeWorkMetadata(r.Context(), id, body.Caller, body.Metadata)
	if err != nil {
		renderOperationError(rw, err)
		return
	}
	if evt == nil {
		renderError(rw, http.StatusNotFound, errors.New("no such work"))
		return
	}
	metadataChangesTotal.Inc()
	renderJSON(rw, http.StatusOK, evt)
}

func (s *Server) getLedger(rw http.ResponseWriter, r *http.Request) {
	w, err := s.readWork(rw, r)
	if w == nil || err != nil {
		return
	}
	renderJSON(rw, http.StatusOK, map[string]string{
		"ledger": w.WorkLedger(),
	})
}

func (s *Server) getCapabilities(rw http.ResponseWriter, r *http.Request) {
	w, err := s.readWork(rw, r)
	if w == nil || err != nil {
		return
	}
	renderJSON(rw, http.StatusOK, map[string]interface{}{
		"capabilities": w.Capabilities(),
	})
}

func (s *Server) getWorkEvents(rw http.ResponseWriter, r *http.Request) {
	w, err := s.readWork(rw, r)
	if w == nil || err != nil {
		return
	}
	events, err := s.registry.ListWorkEvents(w.ID, 0)
	if err != nil {
		renderError(rw, http.StatusInternalServerError, err)
		return
	}
	renderJSON(rw, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

func (s *Server) getAsset(rw http.ResponseWriter, r *http.Request) {
	token, err := s.registry.GetAsset(mux.Vars(r)["id"])
	if err != nil {
		renderError(rw, http.StatusInternalServerError, err)
		return
	}
	if token == nil {
		renderError(rw, http.StatusNotFound, errors.New("no such asset"))
		return
	}
	renderJSON(rw, http.StatusOK, map[string]interface{}{
		"id":         token.ID,
		"symbol":     token.Symbol,
		"name":       token.Name,
		"supply":     token.Supply,
		"created_at": token.CreatedAt,
	})
}

func (s *Server) getAssetBalance(rw http.ResponseWriter, r *http.Request) {
	holder := r.URL.Query().Get("holder")
	if holder == "" {
		renderError(rw, http.StatusBadRequest, errors.New("missing holder"))
		return
	}
	balance, err := s.registry.AssetBalance(mux.Vars(r)["id"], holder)
	if err != nil {
		renderError(rw, http.StatusInternalServerError, err)
		return
	}
	renderJSON(rw, http.StatusOK, map[string]interface{}{
		"holder":  holder,
		"balance": balance,
	})
}

func (s *Server) transferAsset(rw http.ResponseWriter, r *http.Request) {
	var body struct {
		From   string          `json:"from"`
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		renderError(rw, http.StatusBadRequest, err)
		return
	}
	err = s.registry.TransferAsset(r.Context(), mux.Vars(r)["id"], body.From, body.To, body.Amount)
	if err != nil {
		renderOperationError(rw, err)
		return
	}
	renderJSON(rw, http.StatusOK, map[string]string{"state": "done"})
}

func (s *Server) getDeed(rw http.ResponseWriter, r *http.Request) {
	deed, err := s.registry.GetDeed(mux.Vars(r)["id"])
	if err != nil {
		renderError(rw, http.StatusInternalServerError, err)
		return
	}
	if deed == nil {
		renderError(rw, http.StatusNotFound, errors.New("no such deed"))
		return
	}
	renderJSON(rw, http.StatusOK, map[string]interface{}{
		"token_id":   deed.TokenID,
		"holder":     deed.Holder,
		"created_at": deed.CreatedAt,
	})
}

func (s *Server) transferDeed(rw http.ResponseWriter, r *http.Request) {
	var body struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		renderError(rw, http.StatusBadRequest, err)
		return
	}
	err = s.registry.TransferDeed(r.Context(), mux.Vars(r)["id"], body.From, body.To)
	if err != nil {
		renderOperationError(rw, err)
		return
	}
	renderJSON(rw, http.StatusOK, map[string]string{"state": "done"})
}

func (s *Server) readWork(rw http.ResponseWriter, r *http.Request) (*work.Work, error) {
	w, err := s.registry.GetWork(mux.Vars(r)["id"])
	if err != nil {
		renderError(rw, http.StatusInternalServerError, err)
		return nil, err
	}
	if w == nil {
		renderError(rw, http.StatusNotFound, errors.New("no such work"))
		return nil, nil
	}
	return w, nil
}

func renderOperationError(rw http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, work.ErrMutationDenied):
		renderError(rw, http.StatusForbidden, err)
	case errors.Is(err, work.ErrWorkExists):
		renderError(rw, http.StatusConflict, err)
	case errors.Is(err, work.ErrInvalidRegistration),
		errors.Is(err, asset.ErrInsufficientBalance),
		errors.Is(err, asset.ErrNotHolder),
		errors.Is(err, asset.ErrInvalidAmount):
		renderError(rw, http.StatusBadRequest, err)
	default:
		renderError(rw, http.StatusInternalServerError, err)
	}
}

func renderError(rw http.ResponseWriter, status int, err error) {
	renderJSON(rw, status, map[string]string{"error": err.Error()})
}

func renderJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(body)
}
