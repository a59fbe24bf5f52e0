package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/domain"
	"hdrcommit/internal/infrastructure/ethrpc"
	"hdrcommit/internal/interfaces/render"
)

type Checker interface {
	Check(ctx context.Context, tag domain.BlockTag) (*application.Report, error)
}

type RPCStatus interface {
	ChainID(ctx context.Context) (uint64, error)
}

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type Server struct {
	single    Checker
	cross     Checker
	rpc       RPCStatus
	metrics   *Metrics
	buildInfo BuildInfo
}

// NewServer builds the API. single commits to the primary provider only;
// cross compares both providers and may be nil when no secondary is set.
func NewServer(single, cross Checker, rpc RPCStatus, metrics *Metrics, buildInfo BuildInfo) (*Server, error) {
	if single == nil || rpc == nil {
		return nil, errors.New("http server dependencies must not be nil")
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{single: single, cross: cross, rpc: rpc, metrics: metrics, buildInfo: buildInfo}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/commitment", s.handleCommitment)
	mux.HandleFunc("/compare", s.handleCompare)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/version", s.handleVersion)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.rpc.ChainID(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "rpc not ready")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCommitment(w http.ResponseWriter, r *http.Request) {
	s.serveCheck(w, r, s.single)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if s.cross == nil {
		respondError(w, http.StatusServiceUnavailable, "no secondary provider configured")
		return
	}
	s.serveCheck(w, r, s.cross)
}

func (s *Server) serveCheck(w http.ResponseWriter, r *http.Request, checker Checker) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tag, err := domain.ParseBlockTag(r.URL.Query().Get("block"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := checker.Check(r.Context(), tag)
	respondJSON(w, statusFor(err), render.NewView(report, err))
}

// statusFor maps check failures onto HTTP statuses. Upstream trouble is a bad
// gateway; a block the provider does not know is not found.
func statusFor(err error) int {
	var fetchErr *ethrpc.FetchError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ethrpc.ErrBlockNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEncoding), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	snap := s.metrics.Snapshot()

	lastCheck := float64(0)
	if !snap.LastCheckTime.IsZero() {
		lastCheck = float64(snap.LastCheckTime.Unix())
	}

	fmt.Fprintf(w, "hdrcommit_uptime_seconds %.0f\n", time.Since(snap.StartTime).Seconds())
	fmt.Fprintf(w, "hdrcommit_checks_total %d\n", snap.Checks)
	fmt.Fprintf(w, "hdrcommit_cross_checks_total %d\n", snap.CrossChecks)
	fmt.Fprintf(w, "hdrcommit_check_errors_total %d\n", snap.Errors)
	fmt.Fprintf(w, "hdrcommit_encoding_errors_total %d\n", snap.EncodingErrors)
	fmt.Fprintf(w, "hdrcommit_fetch_errors_total %d\n", snap.FetchErrors)
	fmt.Fprintf(w, "hdrcommit_block_not_found_total %d\n", snap.NotFound)
	fmt.Fprintf(w, "hdrcommit_mismatches_total %d\n", snap.Mismatches)
	for _, field := range domain.Fields {
		fmt.Fprintf(w, "hdrcommit_field_mismatches_total{field=%q} %d\n", field.String(), snap.FieldMismatches[field.String()])
	}
	fmt.Fprintf(w, "hdrcommit_last_block %d\n", snap.LastBlock)
	fmt.Fprintf(w, "hdrcommit_last_check_timestamp_seconds %.0f\n", lastCheck)
	fmt.Fprintf(w, "hdrcommit_last_check_duration_seconds %.3f\n", snap.LastElapsed.Seconds())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.buildInfo)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
