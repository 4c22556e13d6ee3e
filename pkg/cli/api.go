package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mchmarny/bendable/pkg/score"
	"github.com/mchmarny/bendable/pkg/store"
)

const maxRequestBytes = 1 << 20

type scoresRequest struct {
	Scores []string `json:"scores"`
}

type compareRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type calcRequest struct {
	Op     string  `json:"op"`
	A      string  `json:"a"`
	B      string  `json:"b,omitempty"`
	Factor float64 `json:"factor,omitempty"`
}

type recordRequest struct {
	Score string `json:"score"`
}

type rankResponse struct {
	Best   string   `json:"best"`
	Scores []string `json:"scores"`
}

func makeRouter(def *score.Definition, st *store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/parse", parseAPIHandler(def))
	mux.HandleFunc("POST /api/compare", compareAPIHandler(def))
	mux.HandleFunc("POST /api/calc", calcAPIHandler(def))
	mux.HandleFunc("POST /api/rank", rankAPIHandler(def))

	mux.HandleFunc("GET /api/runs", runsAPIHandler(st))
	mux.HandleFunc("POST /api/history/{run}", recordAPIHandler(def, st))
	mux.HandleFunc("GET /api/history/{run}", listAPIHandler(st))
	mux.HandleFunc("GET /api/history/{run}/best", bestAPIHandler(st))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeScoreError maps score and store errors to HTTP statuses.
func writeScoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, score.ErrParse), errors.Is(err, errUnknownOp), errors.Is(err, score.ErrEmpty):
		status = http.StatusBadRequest
	case errors.Is(err, score.ErrIncompatible):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func parseAPIHandler(def *score.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoresRequest
		if !decode(w, r, &req) {
			return
		}
		list := make([]*ScoreView, 0, len(req.Scores))
		for _, v := range req.Scores {
			s, err := parseScore(def, v)
			if err != nil {
				writeScoreError(w, err)
				return
			}
			list = append(list, describe(v, s))
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func compareAPIHandler(def *score.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compareRequest
		if !decode(w, r, &req) {
			return
		}
		res, err := compareScores(def, req.A, req.B)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func calcAPIHandler(def *score.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calcRequest
		if !decode(w, r, &req) {
			return
		}
		res, err := calculate(def, req.Op, req.A, req.B, req.Factor)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func rankAPIHandler(def *score.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoresRequest
		if !decode(w, r, &req) {
			return
		}
		scores := make([]score.Bendable, 0, len(req.Scores))
		for _, v := range req.Scores {
			s, err := parseScore(def, v)
			if err != nil {
				writeScoreError(w, err)
				return
			}
			scores = append(scores, s)
		}

		best, err := score.Max(scores...)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		if err := score.Sort(scores, true); err != nil {
			writeScoreError(w, err)
			return
		}

		res := &rankResponse{Best: best.String(), Scores: make([]string, 0, len(scores))}
		for _, s := range scores {
			res.Scores = append(res.Scores, s.String())
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func runsAPIHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.Runs(r.Context())
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func recordAPIHandler(def *score.Definition, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordRequest
		if !decode(w, r, &req) {
			return
		}
		s, err := parseScore(def, req.Score)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		e, err := st.Record(r.Context(), r.PathValue("run"), s)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func listAPIHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := historyLimitDefault
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid limit: "+v)
				return
			}
			limit = n
		}
		list, err := st.List(r.Context(), r.PathValue("run"), limit)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func bestAPIHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feasible, _ := strconv.ParseBool(r.URL.Query().Get("feasible"))
		e, err := st.Best(r.Context(), r.PathValue("run"), feasible)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}
