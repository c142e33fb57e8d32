package unit

import (
	"context"
	"errors"
	"sync"
	"testing"

	expenseapproval "amicale/contexts/finance-core/expense-approval"
	"amicale/contexts/finance-core/expense-approval/domain/entities"
	domainerrors "amicale/contexts/finance-core/expense-approval/domain/errors"
	httptransport "amicale/contexts/finance-core/expense-approval/transport/http"
)

func openApproval(t *testing.T, module expenseapproval.Module) httptransport.ApprovalResponse {
	t.Helper()
	resp, err := module.Handler.OpenApprovalHandler(context.Background(), httptransport.OpenApprovalRequest{
		TransactionID: "tx-1",
		Description:   "venue rental deposit",
		Amount:        "450.00",
	})
	if err != nil {
		t.Fatalf("open approval failed: %v", err)
	}
	return resp
}

func sign(t *testing.T, module expenseapproval.Module, role string, signer string) (httptransport.ApprovalResponse, error) {
	t.Helper()
	return module.Handler.SignHandler(context.Background(), httptransport.SignRequest{
		TransactionID: "tx-1",
		Role:          role,
		SignerID:      signer,
	})
}

func TestExpenseApprovalDefaultsToStatutoryRoles(t *testing.T) {
	module := expenseapproval.NewInMemoryModule(nil)
	resp := openApproval(t, module)

	if resp.Status != string(entities.StatusPending) {
		t.Fatalf("expected pending status, got %s", resp.Status)
	}
	if len(resp.MissingRoles) != 3 {
		t.Fatalf("expected the three statutory signer roles, got %v", resp.MissingRoles)
	}
	if resp.Amount != "450.00" {
		t.Fatalf("amount not preserved: %s", resp.Amount)
	}
}

func TestExpenseApprovalSignatureProgression(t *testing.T) {
	module := expenseapproval.NewInMemoryModule(nil)
	openApproval(t, module)

	partial, err := sign(t, module, "president", "member-p")
	if err != nil {
		t.Fatalf("president signature failed: %v", err)
	}
	if partial.Status != string(entities.StatusPartiallySigned) {
		t.Fatalf("expected partially_signed after one signature, got %s", partial.Status)
	}

	partial, err = sign(t, module, "treasurer", "member-t")
	if err != nil {
		t.Fatalf("treasurer signature failed: %v", err)
	}
	if partial.Status != string(entities.StatusPartiallySigned) {
		t.Fatalf("expected partially_signed with one role missing, got %s", partial.Status)
	}
	if len(partial.MissingRoles) != 1 || partial.MissingRoles[0] != "auditor" {
		t.Fatalf("expected auditor to be the only missing role, got %v", partial.MissingRoles)
	}

	approved, err := sign(t, module, "auditor", "member-a")
	if err != nil {
		t.Fatalf("auditor signature failed: %v", err)
	}
	if approved.Status != string(entities.StatusApproved) {
		t.Fatalf("expected approved after all roles signed, got %s", approved.Status)
	}
}

func TestExpenseApprovalDuplicateSignaturePreservesOriginal(t *testing.T) {
	module := expenseapproval.NewInMemoryModule(nil)
	openApproval(t, module)

	if _, err := sign(t, module, "president", "member-p"); err != nil {
		t.Fatalf("first signature failed: %v", err)
	}
	original, err := module.Store.GetApproval(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("get approval failed: %v", err)
	}
	firstSig, ok := original.SignatureFor("president")
	if !ok {
		t.Fatalf("expected a recorded president signature")
	}

	_, err = sign(t, module, "president", "member-other")
	if !errors.Is(err, domainerrors.ErrAlreadySigned) {
		t.Fatalf("expected ErrAlreadySigned, got %v", err)
	}

	current, err := module.Store.GetApproval(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("get approval failed: %v", err)
	}
	currentSig, ok := current.SignatureFor("president")
	if !ok || !currentSig.SignedAt.Equal(firstSig.SignedAt) || currentSig.SignerID != firstSig.SignerID {
		t.Fatalf("duplicate attempt altered the recorded signature: %+v vs %+v", currentSig, firstSig)
	}
}

func TestExpenseApprovalIsTerminalOnceApproved(t *testing.T) {
	module := expenseapproval.NewInMemoryModule(nil)
	openApproval(t, module)
	for role, signer := range map[string]string{
		"president": "member-p",
		"treasurer": "member-t",
		"auditor":   "member-a",
	} {
		if _, err := sign(t, module, role, signer); err != nil {
			t.Fatalf("signature for %s failed: %v", role, err)
		}
	}

	_, err := sign(t, module, "president", "member-late")
	if !errors.Is(err, domainerrors.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved on a settled approval, got %v", err)
	}
}

func TestExpenseApprovalRejectsUnknownRole(t *testing.T) {
	module := expenseapproval.NewInMemoryModule(nil)
	openApproval(t, module)

	_, err := sign(t, module, "secretary", "member-s")
	if !errors.Is(err, domainerrors.ErrRoleNotRequired) {
		t.Fatalf("expected ErrRoleNotRequired, got %v", err)
	}
}

func TestExpenseApprovalConcurrentSameRoleSignatures(t *testing.T) {
	module := expenseapproval.NewInMemoryModule(nil)
	openApproval(t, module)

	const attempts = 4
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sign(t, module, "treasurer", "member-t")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainerrors.ErrAlreadySigned):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one treasurer signature to land, got %d", succeeded)
	}
}

func TestExpenseApprovalEmitsEventOnFinalSignature(t *testing.T) {
	module := expenseapproval.NewInMemoryModule(nil)
	openApproval(t, module)

	if _, err := sign(t, module, "president", "member-p"); err != nil {
		t.Fatalf("signature failed: %v", err)
	}
	if _, err := sign(t, module, "treasurer", "member-t"); err != nil {
		t.Fatalf("signature failed: %v", err)
	}
	if got := module.Store.PendingOutboxCount(); got != 0 {
		t.Fatalf("no event expected before full approval, found %d", got)
	}

	if _, err := sign(t, module, "auditor", "member-a"); err != nil {
		t.Fatalf("final signature failed: %v", err)
	}
	if got := module.Store.PendingOutboxCount(); got != 1 {
		t.Fatalf("expected one approval event in the outbox, found %d", got)
	}
}
