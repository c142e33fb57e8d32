package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"amicale/contexts/governance/assembly-compliance/application"
	"amicale/contexts/governance/assembly-compliance/domain/entities"
	httptransport "amicale/contexts/governance/assembly-compliance/transport/http"
)

type Handler struct {
	Compliance application.Service
	Logger     *slog.Logger
}

func (h Handler) AssemblyNoticeHandler(ctx context.Context, assemblyID string) (httptransport.CheckResponse, error) {
	result, err := h.Compliance.CheckAssemblyNotice(ctx, assemblyID)
	if err != nil {
		return httptransport.CheckResponse{}, err
	}
	return checkResponse("assembly_notice", result), nil
}

func (h Handler) AgendaProposalHandler(ctx context.Context, assemblyID string, proposalDate time.Time) (httptransport.CheckResponse, error) {
	result, err := h.Compliance.CheckAgendaProposal(ctx, assemblyID, proposalDate)
	if err != nil {
		return httptransport.CheckResponse{}, err
	}
	return checkResponse("agenda_proposal", result), nil
}

func (h Handler) ResultPublicationHandler(ctx context.Context, assemblyID string, publicationDate time.Time) (httptransport.CheckResponse, error) {
	result, err := h.Compliance.CheckResultPublication(ctx, assemblyID, publicationDate)
	if err != nil {
		return httptransport.CheckResponse{}, err
	}
	return checkResponse("result_publication", result), nil
}

func (h Handler) DuesGraceHandler(ctx context.Context, dueDate time.Time, asOf time.Time) (httptransport.CheckResponse, error) {
	result, err := h.Compliance.CheckDuesGrace(ctx, dueDate, asOf)
	if err != nil {
		return httptransport.CheckResponse{}, err
	}
	return checkResponse("dues_grace", result), nil
}

func (h Handler) ExtraordinaryQuorumHandler(ctx context.Context, requesters int) (httptransport.QuorumResponse, error) {
	result, err := h.Compliance.CheckExtraordinaryQuorum(ctx, requesters)
	if err != nil {
		return httptransport.QuorumResponse{}, err
	}
	return httptransport.QuorumResponse{
		Compliant:     result.Compliant,
		Requesters:    result.Requesters,
		Required:      result.Required,
		ActiveMembers: result.ActiveMembers,
	}, nil
}

func (h Handler) SeatVacancyHandler(ctx context.Context, seatID string) (httptransport.SeatReportResponse, error) {
	report, err := h.Compliance.CheckSeatVacancy(ctx, seatID)
	if err != nil {
		return httptransport.SeatReportResponse{}, err
	}
	return httptransport.SeatReportResponse{
		SeatID:  report.SeatID,
		Vacant:  report.Vacant,
		Reasons: report.Reasons,
	}, nil
}

func checkResponse(check string, result entities.CheckResult) httptransport.CheckResponse {
	return httptransport.CheckResponse{
		Check:         check,
		Compliant:     result.Compliant,
		Deadline:      result.Deadline.UTC().Format("2006-01-02"),
		DaysRemaining: result.DaysRemaining,
	}
}
