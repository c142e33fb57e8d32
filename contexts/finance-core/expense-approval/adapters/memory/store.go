package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"amicale/contexts/finance-core/expense-approval/domain/entities"
	domainerrors "amicale/contexts/finance-core/expense-approval/domain/errors"
	"amicale/contexts/finance-core/expense-approval/ports"
	"amicale/internal/shared/events"
	"amicale/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store keeps approvals and their signature ledger in process. The
// per-(transaction, role) uniqueness check runs under the store lock, so
// concurrent signing behaves like the database unique constraint.
type Store struct {
	mu          sync.Mutex
	approvals   map[string]entities.ExpenseApproval
	outboxRows  map[string]outbox.Message
	outboxOrder []string
}

func NewStore() *Store {
	return &Store{
		approvals:  map[string]entities.ExpenseApproval{},
		outboxRows: map[string]outbox.Message{},
	}
}

func (s *Store) InsertApproval(_ context.Context, approval entities.ExpenseApproval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.approvals[approval.TransactionID]; ok {
		return domainerrors.ErrApprovalExists
	}
	s.approvals[approval.TransactionID] = approval
	return nil
}

func (s *Store) GetApproval(_ context.Context, transactionID string) (entities.ExpenseApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	approval, ok := s.approvals[transactionID]
	if !ok {
		return entities.ExpenseApproval{}, domainerrors.ErrApprovalNotFound
	}
	return approval, nil
}

func (s *Store) RecordSignature(_ context.Context, transactionID string, signature entities.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	approval, ok := s.approvals[transactionID]
	if !ok {
		return domainerrors.ErrApprovalNotFound
	}
	if _, signed := approval.SignatureFor(signature.Role); signed {
		return domainerrors.ErrAlreadySigned
	}
	approval.Signatures = append(approval.Signatures, signature)
	s.approvals[transactionID] = approval
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outboxRows[envelope.EventID] = outbox.Message{
		ID:        envelope.EventID,
		EventType: envelope.EventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
	}
	s.outboxOrder = append(s.outboxOrder, envelope.EventID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = len(s.outboxOrder)
	}
	var pending []outbox.Message
	for _, id := range s.outboxOrder {
		message := s.outboxRows[id]
		if message.Status != outbox.StatusPending {
			continue
		}
		pending = append(pending, message)
		if len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	message, ok := s.outboxRows[messageID]
	if !ok {
		return nil
	}
	message.Status = outbox.StatusPublished
	s.outboxRows[messageID] = message
	return nil
}

// PendingOutboxCount is a test helper.
func (s *Store) PendingOutboxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, message := range s.outboxRows {
		if message.Status == outbox.StatusPending {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ApprovalRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
