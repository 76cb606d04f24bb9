// Package server exposes published deal documents and run history over a
// small JSON API. This is the surface the site front end reads.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Olivier-cousineau/econodeal/internal/database"
	"github.com/Olivier-cousineau/econodeal/internal/models"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/stores"
	"github.com/Olivier-cousineau/econodeal/internal/sink"
	"github.com/Olivier-cousineau/econodeal/pkg/config"
)

type Server struct {
	cfg  *config.Config
	repo *database.Repository
	out  *sink.Sink
	log  *logrus.Logger
}

func New(cfg *config.Config, repo *database.Repository, log *logrus.Logger) *Server {
	return &Server{
		cfg:  cfg,
		repo: repo,
		out:  sink.New(cfg.Output.Dir, cfg.Output.CSV, log.WithField("component", "server")),
		log:  log,
	}
}

// Router builds the API routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stores", s.handleStores).Methods(http.MethodGet)
	api.HandleFunc("/deals/{store}", s.handleDeals).Methods(http.MethodGet)
	api.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)
	return r
}

// Start blocks serving the API.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	s.log.WithField("addr", addr).Info("starting API server")
	return http.ListenAndServe(addr, s.Router())
}

type storeInfo struct {
	ID         string               `json:"id"`
	City       string               `json:"city,omitempty"`
	Configured bool                 `json:"configured"`
	LastRun    *database.RunSummary `json:"lastRun,omitempty"`
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	configured := make(map[string]string, len(s.cfg.Stores))
	for _, st := range s.cfg.Stores {
		configured[st.ID] = st.City
	}

	out := make([]storeInfo, 0, len(stores.IDs()))
	for _, id := range stores.IDs() {
		info := storeInfo{ID: id}
		if city, ok := configured[id]; ok {
			info.City = city
			info.Configured = true
		}
		if last, err := s.repo.LatestRun(id); err == nil {
			info.LastRun = last
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

type dealsResponse struct {
	StoreID  string                 `json:"storeId"`
	City     string                 `json:"city"`
	Status   models.RunStatus       `json:"status"`
	Count    int                    `json:"count"`
	Products []models.ProductRecord `json:"products"`
}

// handleDeals serves the latest published document for a store. Optional
// minDiscount, maxPrice and q query parameters filter the product list.
func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	storeID := mux.Vars(r)["store"]

	city := ""
	for _, st := range s.cfg.Stores {
		if st.ID == storeID {
			city = st.City
			break
		}
	}
	if city == "" {
		http.Error(w, "unknown store", http.StatusNotFound)
		return
	}

	doc, err := s.out.Read(storeID, city)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "no published deals for store", http.StatusNotFound)
			return
		}
		s.log.WithError(err).Error("failed to read published document")
		http.Error(w, "failed to read deals", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	minDiscount, _ := strconv.Atoi(q.Get("minDiscount"))
	maxPrice, _ := strconv.ParseFloat(q.Get("maxPrice"), 64)
	search := strings.ToLower(q.Get("q"))

	filtered := make([]models.ProductRecord, 0, len(doc.Products))
	for _, p := range doc.Products {
		if minDiscount > 0 && (p.DiscountPercent == nil || *p.DiscountPercent < minDiscount) {
			continue
		}
		if maxPrice > 0 && (p.SalePrice == nil || *p.SalePrice > maxPrice) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		filtered = append(filtered, p)
	}

	writeJSON(w, http.StatusOK, dealsResponse{
		StoreID:  doc.StoreID,
		City:     doc.City,
		Status:   doc.Status,
		Count:    len(filtered),
		Products: filtered,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.repo.ListRuns(limit)
	if err != nil {
		s.log.WithError(err).Error("failed to list runs")
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []database.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
