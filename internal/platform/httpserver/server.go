package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	expenseapproval "amicale/contexts/finance-core/expense-approval"
	expenseerrors "amicale/contexts/finance-core/expense-approval/domain/errors"
	expensehttp "amicale/contexts/finance-core/expense-approval/transport/http"
	assemblycompliance "amicale/contexts/governance/assembly-compliance"
	complianceerrors "amicale/contexts/governance/assembly-compliance/domain/errors"
	compliancehttp "amicale/contexts/governance/assembly-compliance/transport/http"
	ballotbox "amicale/contexts/governance/ballot-box"
	balloterrors "amicale/contexts/governance/ballot-box/domain/errors"
	ballothttp "amicale/contexts/governance/ballot-box/transport/http"
	eligibilityservice "amicale/contexts/governance/eligibility-service"
	eligibilityerrors "amicale/contexts/governance/eligibility-service/domain/errors"
	eligibilityhttp "amicale/contexts/governance/eligibility-service/transport/http"
	membershiplifecycle "amicale/contexts/governance/membership-lifecycle"
	lifecycleerrors "amicale/contexts/governance/membership-lifecycle/domain/errors"
	lifecyclehttp "amicale/contexts/governance/membership-lifecycle/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "amicale/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	lifecycle   membershiplifecycle.Module
	eligibility eligibilityservice.Module
	ballots     ballotbox.Module
	approvals   expenseapproval.Module
	compliance  assemblycompliance.Module
}

func New(
	lifecycle membershiplifecycle.Module,
	eligibility eligibilityservice.Module,
	ballots ballotbox.Module,
	approvals expenseapproval.Module,
	compliance assemblycompliance.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		lifecycle:   lifecycle,
		eligibility: eligibility,
		ballots:     ballots,
		approvals:   approvals,
		compliance:  compliance,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/governance/v1/members/{member_id}/status", s.handleMemberStatus)
	s.mux.HandleFunc("POST /api/governance/v1/members/{member_id}/status/recompute", s.handleMemberStatusRecompute)

	s.mux.HandleFunc("GET /api/governance/v1/eligibility/voting", s.handleVotingEligibility)
	s.mux.HandleFunc("GET /api/governance/v1/eligibility/candidacy", s.handleCandidacyEligibility)
	s.mux.HandleFunc("POST /api/governance/v1/eligibility/candidacy/reverify", s.handleCandidacyReverify)

	s.mux.HandleFunc("POST /api/governance/v1/ballots/resolution", s.handleCastResolutionBallot)
	s.mux.HandleFunc("POST /api/governance/v1/ballots/election", s.handleCastElectionBallot)
	s.mux.HandleFunc("GET /api/governance/v1/tallies/resolution/{item_id}", s.handleResolutionTally)
	s.mux.HandleFunc("POST /api/governance/v1/tallies/resolution/{item_id}/publish", s.handlePublishResolutionTally)
	s.mux.HandleFunc("GET /api/governance/v1/tallies/election/{election_id}", s.handleElectionTally)
	s.mux.HandleFunc("POST /api/governance/v1/tallies/election/{election_id}/publish", s.handlePublishElectionTally)

	s.mux.HandleFunc("POST /api/finance/v1/approvals", s.handleOpenApproval)
	s.mux.HandleFunc("POST /api/finance/v1/approvals/{transaction_id}/signatures", s.handleSignApproval)
	s.mux.HandleFunc("GET /api/finance/v1/approvals/{transaction_id}", s.handleCheckApproval)

	s.mux.HandleFunc("GET /api/governance/v1/assemblies/{assembly_id}/notice-check", s.handleNoticeCheck)
	s.mux.HandleFunc("GET /api/governance/v1/assemblies/{assembly_id}/agenda-check", s.handleAgendaCheck)
	s.mux.HandleFunc("GET /api/governance/v1/assemblies/{assembly_id}/publication-check", s.handlePublicationCheck)
	s.mux.HandleFunc("GET /api/governance/v1/compliance/dues-grace", s.handleDuesGraceCheck)
	s.mux.HandleFunc("GET /api/governance/v1/compliance/quorum", s.handleQuorumCheck)
	s.mux.HandleFunc("GET /api/governance/v1/seats/{seat_id}/vacancy", s.handleSeatVacancy)
}

func (s *Server) handleMemberStatus(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseDateParam(w, r, "as_of", writeLifecycleError)
	if !ok {
		return
	}
	resp, err := s.lifecycle.Handler.EvaluateStatusHandler(r.Context(), r.PathValue("member_id"), asOf)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMemberStatusRecompute(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseDateParam(w, r, "as_of", writeLifecycleError)
	if !ok {
		return
	}
	resp, err := s.lifecycle.Handler.RecomputeStatusHandler(r.Context(), r.PathValue("member_id"), asOf)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingEligibility(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.eligibility.Handler.CheckVotingHandler(
		r.Context(),
		query.Get("member_id"),
		query.Get("target_kind"),
		query.Get("target_id"),
	)
	if err != nil {
		writeEligibilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandidacyEligibility(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.eligibility.Handler.CheckCandidacyHandler(
		r.Context(),
		query.Get("member_id"),
		query.Get("position_id"),
	)
	if err != nil {
		writeEligibilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandidacyReverify(w http.ResponseWriter, r *http.Request) {
	var req eligibilityhttp.ReverifyCandidacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEligibilityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.eligibility.Handler.ReverifyCandidacyHandler(r.Context(), req.MemberID, req.PositionID)
	if err != nil {
		writeEligibilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastResolutionBallot(w http.ResponseWriter, r *http.Request) {
	var req ballothttp.CastResolutionBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ballots.Handler.CastResolutionBallotHandler(r.Context(), req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastElectionBallot(w http.ResponseWriter, r *http.Request) {
	var req ballothttp.CastElectionBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ballots.Handler.CastElectionBallotHandler(r.Context(), req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleResolutionTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballots.Handler.ResolutionTallyHandler(r.Context(), r.PathValue("item_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePublishResolutionTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballots.Handler.PublishResolutionTallyHandler(r.Context(), r.PathValue("item_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballots.Handler.ElectionTallyHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePublishElectionTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballots.Handler.PublishElectionTallyHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenApproval(w http.ResponseWriter, r *http.Request) {
	var req expensehttp.OpenApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExpenseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.approvals.Handler.OpenApprovalHandler(r.Context(), req)
	if err != nil {
		writeExpenseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSignApproval(w http.ResponseWriter, r *http.Request) {
	var req expensehttp.SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExpenseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.TransactionID = r.PathValue("transaction_id")
	resp, err := s.approvals.Handler.SignHandler(r.Context(), req)
	if err != nil {
		writeExpenseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckApproval(w http.ResponseWriter, r *http.Request) {
	resp, err := s.approvals.Handler.CheckApprovalHandler(r.Context(), r.PathValue("transaction_id"))
	if err != nil {
		writeExpenseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNoticeCheck(w http.ResponseWriter, r *http.Request) {
	resp, err := s.compliance.Handler.AssemblyNoticeHandler(r.Context(), r.PathValue("assembly_id"))
	if err != nil {
		writeComplianceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAgendaCheck(w http.ResponseWriter, r *http.Request) {
	proposalDate, ok := parseDateParam(w, r, "proposal_date", writeComplianceError)
	if !ok {
		return
	}
	resp, err := s.compliance.Handler.AgendaProposalHandler(r.Context(), r.PathValue("assembly_id"), proposalDate)
	if err != nil {
		writeComplianceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePublicationCheck(w http.ResponseWriter, r *http.Request) {
	publicationDate, ok := parseDateParam(w, r, "publication_date", writeComplianceError)
	if !ok {
		return
	}
	resp, err := s.compliance.Handler.ResultPublicationHandler(r.Context(), r.PathValue("assembly_id"), publicationDate)
	if err != nil {
		writeComplianceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDuesGraceCheck(w http.ResponseWriter, r *http.Request) {
	dueDate, ok := parseDateParam(w, r, "due_date", writeComplianceError)
	if !ok {
		return
	}
	asOf, ok := parseDateParam(w, r, "as_of", writeComplianceError)
	if !ok {
		return
	}
	resp, err := s.compliance.Handler.DuesGraceHandler(r.Context(), dueDate, asOf)
	if err != nil {
		writeComplianceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuorumCheck(w http.ResponseWriter, r *http.Request) {
	requesters, err := strconv.Atoi(r.URL.Query().Get("requesters"))
	if err != nil {
		writeComplianceError(w, http.StatusBadRequest, "invalid_requesters", "requesters must be an integer")
		return
	}
	resp, err := s.compliance.Handler.ExtraordinaryQuorumHandler(r.Context(), requesters)
	if err != nil {
		writeComplianceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeatVacancy(w http.ResponseWriter, r *http.Request) {
	resp, err := s.compliance.Handler.SeatVacancyHandler(r.Context(), r.PathValue("seat_id"))
	if err != nil {
		writeComplianceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLifecycleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycleerrors.ErrMemberNotFound):
		writeLifecycleError(w, http.StatusNotFound, "member_not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidRequest):
		writeLifecycleError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeLifecycleError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEligibilityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, eligibilityerrors.ErrMemberNotFound),
		errors.Is(err, eligibilityerrors.ErrPositionNotFound):
		writeEligibilityError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, eligibilityerrors.ErrInvalidRequest):
		writeEligibilityError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeEligibilityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBallotDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, balloterrors.ErrAlreadyVoted):
		writeBallotError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, balloterrors.ErrNotEligible):
		writeBallotError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, balloterrors.ErrInvalidBallot):
		writeBallotError(w, http.StatusBadRequest, "invalid_ballot", err.Error())
	case errors.Is(err, balloterrors.ErrElectionNotFound),
		errors.Is(err, balloterrors.ErrPositionNotFound):
		writeBallotError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, balloterrors.ErrUnknownCandidate),
		errors.Is(err, balloterrors.ErrInvalidElectionState):
		writeBallotError(w, http.StatusUnprocessableEntity, "invalid_election_state", err.Error())
	default:
		writeBallotError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeExpenseDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, expenseerrors.ErrApprovalNotFound):
		writeExpenseError(w, http.StatusNotFound, "approval_not_found", err.Error())
	case errors.Is(err, expenseerrors.ErrAlreadySigned),
		errors.Is(err, expenseerrors.ErrAlreadyApproved),
		errors.Is(err, expenseerrors.ErrApprovalExists):
		writeExpenseError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, expenseerrors.ErrRoleNotRequired):
		writeExpenseError(w, http.StatusUnprocessableEntity, "role_not_required", err.Error())
	case errors.Is(err, expenseerrors.ErrInvalidRequest):
		writeExpenseError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeExpenseError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeComplianceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, complianceerrors.ErrAssemblyNotFound),
		errors.Is(err, complianceerrors.ErrSeatNotFound):
		writeComplianceError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, complianceerrors.ErrInvalidRequest):
		writeComplianceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeComplianceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLifecycleError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lifecyclehttp.ErrorResponse{Code: code, Message: message})
}

func writeEligibilityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, eligibilityhttp.ErrorResponse{Code: code, Message: message})
}

func writeBallotError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ballothttp.ErrorResponse{Code: code, Message: message})
}

func writeExpenseError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, expensehttp.ErrorResponse{Code: code, Message: message})
}

func writeComplianceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, compliancehttp.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// parseDateParam reads an optional date query parameter, accepting a plain
// date or full RFC 3339 timestamp. Zero time when absent; the caller decides
// what "now" means.
func parseDateParam(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	writeError func(http.ResponseWriter, int, string, string),
) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed.UTC(), true
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), true
	}
	writeError(w, http.StatusBadRequest, "invalid_date", name+" must be YYYY-MM-DD or RFC 3339")
	return time.Time{}, false
}
