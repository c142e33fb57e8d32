package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"amicale/contexts/finance-core/expense-approval/application"
	"amicale/contexts/finance-core/expense-approval/domain/entities"
	domainerrors "amicale/contexts/finance-core/expense-approval/domain/errors"
	httptransport "amicale/contexts/finance-core/expense-approval/transport/http"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Approvals application.Service
	Logger    *slog.Logger
}

func (h Handler) OpenApprovalHandler(ctx context.Context, req httptransport.OpenApprovalRequest) (httptransport.ApprovalResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return httptransport.ApprovalResponse{}, domainerrors.ErrInvalidRequest
	}
	approval, err := h.Approvals.OpenApproval(ctx, application.OpenApprovalCommand{
		TransactionID: req.TransactionID,
		Description:   req.Description,
		Amount:        amount,
		RequiredRoles: req.RequiredRoles,
	})
	if err != nil {
		return httptransport.ApprovalResponse{}, err
	}
	return approvalResponse(entities.ApprovalReport{
		TransactionID: approval.TransactionID,
		Status:        approval.Status(),
		Amount:        approval.Amount,
		SignedRoles:   approval.SignedRoles(),
		MissingRoles:  approval.MissingRoles(),
		CheckedAt:     approval.OpenedAt,
	}), nil
}

func (h Handler) SignHandler(ctx context.Context, req httptransport.SignRequest) (httptransport.ApprovalResponse, error) {
	report, err := h.Approvals.Sign(ctx, application.SignCommand{
		TransactionID: req.TransactionID,
		Role:          req.Role,
		SignerID:      req.SignerID,
	})
	if err != nil {
		return httptransport.ApprovalResponse{}, err
	}
	return approvalResponse(report), nil
}

func (h Handler) CheckApprovalHandler(ctx context.Context, transactionID string) (httptransport.ApprovalResponse, error) {
	report, err := h.Approvals.CheckApproval(ctx, transactionID)
	if err != nil {
		return httptransport.ApprovalResponse{}, err
	}
	return approvalResponse(report), nil
}

func approvalResponse(report entities.ApprovalReport) httptransport.ApprovalResponse {
	return httptransport.ApprovalResponse{
		TransactionID: report.TransactionID,
		Status:        string(report.Status),
		Amount:        report.Amount.StringFixed(2),
		SignedRoles:   report.SignedRoles,
		MissingRoles:  report.MissingRoles,
		CheckedAt:     report.CheckedAt.UTC().Format(time.RFC3339),
	}
}
