package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/config"
	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/corpus"
	"github.com/jhentschel/anntab/logger"
	"github.com/jhentschel/anntab/model"
)

var servedCorpus *model.Corpus

var tableRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "anntab_table_requests_total",
	Help: "Table requests served, by kind and status.",
}, []string{"kind", "status"})

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the corpus over HTTP",
	Long: `Scans the corpus once and serves its subcorpora, pieces and
tables as JSON. Tables are loaded through their descriptors on demand.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(serve())
	},
}

// LoadServeCorpus scans the corpus the handlers serve from.
func LoadServeCorpus(dir string) error {
	c, err := loadCorpus(dir)
	if err != nil {
		return err
	}
	servedCorpus = c
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func HandleSubcorpora(w http.ResponseWriter, r *http.Request) {
	res := make([]model.SubcorpusListing, 0)
	for _, sub := range servedCorpus.Subcorpora {
		res = append(res, model.SubcorpusListing{
			Name:      sub.Name,
			NumPieces: len(sub.Pieces),
		})
	}
	writeJSON(w, res)
}

func HandlePieces(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sub := servedCorpus.Subcorpus(vars["subcorpus"])
	if sub == nil {
		writeError(w, http.StatusNotFound, "no such subcorpus")
		return
	}
	res := make([]model.PieceListing, 0)
	for _, p := range sub.Pieces {
		listing := model.PieceListing{
			Fname:    p.Fname,
			HasScore: p.ScorePath != "",
		}
		for _, kind := range constants.TableKinds {
			if _, ok := p.Tables[kind]; ok {
				listing.Tables = append(listing.Tables, kind)
			}
		}
		res = append(res, listing)
	}
	writeJSON(w, res)
}

func HandleTable(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := vars["kind"]
	sub := servedCorpus.Subcorpus(vars["subcorpus"])
	if sub == nil {
		tableRequests.WithLabelValues(kind, "not_found").Inc()
		writeError(w, http.StatusNotFound, "no such subcorpus")
		return
	}
	p := sub.Piece(vars["fname"])
	if p == nil {
		tableRequests.WithLabelValues(kind, "not_found").Inc()
		writeError(w, http.StatusNotFound, "no such piece")
		return
	}

	tbl, _, err := corpus.LoadTable(p, kind)
	if err != nil {
		tableRequests.WithLabelValues(kind, "error").Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tableRequests.WithLabelValues(kind, "ok").Inc()
	writeJSON(w, model.TableResponse{
		Subcorpus: sub.Name,
		Fname:     p.Fname,
		Kind:      kind,
		Columns:   tbl.Header,
		Records:   tbl.Records(),
	})
}

func HandleReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, corpus.Validate(servedCorpus))
}

func newRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/subcorpora", HandleSubcorpora).Methods("GET")
	router.HandleFunc("/subcorpora/{subcorpus}/pieces", HandlePieces).Methods("GET")
	router.HandleFunc("/subcorpora/{subcorpus}/pieces/{fname}/{kind}", HandleTable).Methods("GET")
	router.HandleFunc("/report", HandleReport).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() error {
	if err := LoadServeCorpus(corpusDir); err != nil {
		return err
	}
	cfg := config.Load()
	addr := fmt.Sprintf(":%v", cfg.Port)
	logger.Info("serving corpus",
		logger.String("addr", addr), logger.Int("pieces", servedCorpus.NumPieces()))
	return http.ListenAndServe(addr, newRouter())
}
