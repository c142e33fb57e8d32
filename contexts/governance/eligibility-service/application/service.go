package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainerrors "amicale/contexts/governance/eligibility-service/domain/errors"
	"amicale/contexts/governance/eligibility-service/ports"
	"amicale/internal/shared/bylaws"
)

// Service answers the two bylaws questions "may this member vote on this
// target" and "may this member run for this position". Checks never stop at
// the first failure; every failing condition lands in the decision reasons.
type Service struct {
	Members   ports.MemberDirectory
	Ballots   ports.BallotLedger
	Elections ports.ElectionDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (s Service) CheckVoting(ctx context.Context, memberID string, target ports.VoteTarget) (ports.Decision, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" || strings.TrimSpace(target.TargetID) == "" {
		return ports.Decision{}, domainerrors.ErrInvalidRequest
	}
	if target.Kind != ports.TargetAgendaItem && target.Kind != ports.TargetElectionPosition {
		return ports.Decision{}, domainerrors.ErrInvalidRequest
	}

	snapshot, err := s.Members.GetMemberSnapshot(ctx, memberID, s.now())
	if err != nil {
		return ports.Decision{}, err
	}

	var reasons []string
	if !snapshot.Active {
		reasons = append(reasons, reason(ports.ReasonNotActive, strings.Join(snapshot.StatusReasons, "; ")))
	}
	voted, err := s.Ballots.HasVoted(ctx, target, memberID)
	if err != nil {
		return ports.Decision{}, err
	}
	if voted {
		reasons = append(reasons, reason(ports.ReasonAlreadyVoted,
			fmt.Sprintf("a ballot already exists for %s %s", target.Kind, target.TargetID)))
	}

	decision := ports.Decision{Eligible: len(reasons) == 0, Reasons: reasons}
	resolveLogger(s.Logger).Debug("voting eligibility checked",
		"event", "eligibility_voting_checked",
		"module", "governance/eligibility-service",
		"layer", "application",
		"member_id", memberID,
		"target_kind", string(target.Kind),
		"target_id", target.TargetID,
		"eligible", decision.Eligible,
	)
	return decision, nil
}

func (s Service) CheckCandidacy(ctx context.Context, memberID string, positionID string) (ports.Decision, error) {
	memberID = strings.TrimSpace(memberID)
	positionID = strings.TrimSpace(positionID)
	if memberID == "" || positionID == "" {
		return ports.Decision{}, domainerrors.ErrInvalidRequest
	}
	asOf := s.now()

	snapshot, err := s.Members.GetMemberSnapshot(ctx, memberID, asOf)
	if err != nil {
		return ports.Decision{}, err
	}
	position, err := s.Elections.GetPosition(ctx, positionID)
	if err != nil {
		return ports.Decision{}, err
	}

	var reasons []string
	if !snapshot.Active {
		reasons = append(reasons, reason(ports.ReasonNotActive, strings.Join(snapshot.StatusReasons, "; ")))
	}
	if tenure := tenureDays(snapshot.JoinedAt, asOf); tenure < bylaws.MinTenureDays {
		reasons = append(reasons, reason(ports.ReasonTenureInsufficient,
			fmt.Sprintf("%d of %d required days of membership", tenure, bylaws.MinTenureDays)))
	}
	if missing := missingVerifications(snapshot); missing != "" {
		reasons = append(reasons, reason(ports.ReasonVerificationMissing, missing))
	}
	oversight, err := s.Elections.IsOversightMember(ctx, position.ElectionID, memberID)
	if err != nil {
		return ports.Decision{}, err
	}
	if oversight {
		reasons = append(reasons, reason(ports.ReasonCommissionConflict,
			fmt.Sprintf("member sits on the oversight commission of election %s", position.ElectionID)))
	}

	decision := ports.Decision{Eligible: len(reasons) == 0, Reasons: reasons}
	resolveLogger(s.Logger).Debug("candidacy eligibility checked",
		"event", "eligibility_candidacy_checked",
		"module", "governance/eligibility-service",
		"layer", "application",
		"member_id", memberID,
		"position_id", positionID,
		"eligible", decision.Eligible,
	)
	return decision, nil
}

// ReverifyForApproval re-runs the candidacy check against current records.
// Records may have changed between application and approval, so approval must
// never trust the decision made at application time.
func (s Service) ReverifyForApproval(ctx context.Context, memberID string, positionID string) (ports.Decision, error) {
	return s.CheckCandidacy(ctx, memberID, positionID)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// tenureDays counts full days of membership; exactly one bylaws year
// (365 days) satisfies the tenure requirement, one day less does not.
func tenureDays(joinedAt, asOf time.Time) int {
	if joinedAt.IsZero() || asOf.Before(joinedAt) {
		return 0
	}
	return int(asOf.Sub(joinedAt).Hours() / 24)
}

func missingVerifications(snapshot ports.MemberSnapshot) string {
	var missing []string
	if !snapshot.ResidenceVerified {
		missing = append(missing, "residence")
	}
	if !snapshot.OriginVerified {
		missing = append(missing, "origin")
	}
	if len(missing) == 0 {
		return ""
	}
	return strings.Join(missing, " and ") + " verification outstanding"
}

func reason(code string, detail string) string {
	if strings.TrimSpace(detail) == "" {
		return code
	}
	return code + ": " + detail
}
