package service

import (
	"io"
	"net/http"
	"strings"

	"github.com/facundofernandezmiguez/mutants/internal/biz"

	jsoniter "github.com/json-iterator/go"
	"github.com/yola1107/kratos/v2/errors"
	"github.com/yola1107/kratos/v2/log"
)

// DnaService is a dna verification service.
type DnaService struct {
	uc  *biz.DnaUsecase
	log *log.Helper
}

// NewDnaService new a dna service.
func NewDnaService(uc *biz.DnaUsecase, logger log.Logger) *DnaService {
	return &DnaService{uc: uc, log: log.NewHelper(logger)}
}

// VerifyRequest carries the DNA matrix, one string per row.
type VerifyRequest struct {
	Dna []string `json:"dna"`
}

// VerifyReply reports the verdict for a single matrix.
type VerifyReply struct {
	IsMutant bool `json:"isMutant"`
}

// StatsReply aggregates every verified matrix.
type StatsReply struct {
	CountMutantDna int64   `json:"count_mutant_dna"`
	CountHumanDna  int64   `json:"count_human_dna"`
	Ratio          float64 `json:"ratio"`
}

// ErrorReply is the body of every non-2xx/403 response.
type ErrorReply struct {
	Error string `json:"error"`
}

// ServeHTTP dispatches on the path fragment, accepting any method.
// Unknown paths get a JSON 404.
func (s *DnaService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
			s.respond(w, http.StatusInternalServerError, ErrorReply{Error: "Internal Server Error"})
		}
	}()

	s.log.Infof("%s %s", r.Method, r.URL.Path)

	switch path := r.URL.Path; {
	case strings.Contains(path, "/mutant"):
		s.handleMutant(w, r)
	case strings.Contains(path, "/stats"):
		s.handleStats(w, r)
	default:
		s.respond(w, http.StatusNotFound, ErrorReply{Error: "Not Found"})
	}
}

func (s *DnaService) handleMutant(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respond(w, http.StatusBadRequest, ErrorReply{Error: "Invalid JSON format"})
		return
	}
	// An absent body means an empty matrix, not malformed JSON.
	if len(body) == 0 {
		body = []byte("{}")
	}

	var req VerifyRequest
	if err = jsoniter.Unmarshal(body, &req); err != nil {
		s.respond(w, http.StatusBadRequest, ErrorReply{Error: "Invalid JSON format"})
		return
	}
	if len(req.Dna) == 0 {
		s.respond(w, http.StatusBadRequest, ErrorReply{Error: "DNA sequence not provided"})
		return
	}

	mutant, err := s.uc.Verify(r.Context(), req.Dna)
	switch {
	case err == nil && mutant:
		s.respond(w, http.StatusOK, VerifyReply{IsMutant: true})
	case err == nil:
		s.respond(w, http.StatusForbidden, VerifyReply{IsMutant: false})
	case errors.IsBadRequest(err):
		s.respond(w, http.StatusBadRequest, ErrorReply{Error: "Invalid DNA matrix"})
	default:
		s.log.Errorf("verify dna: %v", err)
		s.respond(w, http.StatusInternalServerError, ErrorReply{Error: "Internal Server Error"})
	}
}

func (s *DnaService) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Stats(r.Context())
	if err != nil {
		s.log.Errorf("load stats: %v", err)
		s.respond(w, http.StatusInternalServerError, ErrorReply{Error: "Internal Server Error"})
		return
	}
	s.respond(w, http.StatusOK, StatsReply{
		CountMutantDna: stats.MutantCount,
		CountHumanDna:  stats.HumanCount,
		Ratio:          stats.Ratio,
	})
}

func (s *DnaService) respond(w http.ResponseWriter, code int, v interface{}) {
	payload, err := jsoniter.Marshal(v)
	if err != nil {
		s.log.Errorf("marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(payload); err != nil {
		s.log.Errorf("write response: %v", err)
	}
}
