package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"amicale/contexts/governance/membership-lifecycle/application"
	httptransport "amicale/contexts/governance/membership-lifecycle/transport/http"
)

type Handler struct {
	Lifecycle application.Service
	Logger    *slog.Logger
}

func (h Handler) EvaluateStatusHandler(ctx context.Context, memberID string, asOf time.Time) (httptransport.StatusResponse, error) {
	report, err := h.Lifecycle.EvaluateStatus(ctx, memberID, asOf)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return statusResponse(report.MemberID, string(report.Status), report.Reasons, report.EvaluatedAt), nil
}

func (h Handler) RecomputeStatusHandler(ctx context.Context, memberID string, asOf time.Time) (httptransport.StatusResponse, error) {
	report, err := h.Lifecycle.PersistStatus(ctx, memberID, asOf)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return statusResponse(report.MemberID, string(report.Status), report.Reasons, report.EvaluatedAt), nil
}

func statusResponse(memberID string, status string, reasons []string, evaluatedAt time.Time) httptransport.StatusResponse {
	return httptransport.StatusResponse{
		MemberID:    memberID,
		Status:      status,
		Reasons:     reasons,
		EvaluatedAt: evaluatedAt.UTC().Format(time.RFC3339),
	}
}
