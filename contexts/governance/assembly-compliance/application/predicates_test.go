package application

import (
	"testing"
	"time"

	"amicale/contexts/governance/assembly-compliance/domain/entities"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAssemblyNoticeBoundary(t *testing.T) {
	meeting := date(2024, 6, 11)

	exact := AssemblyNotice(date(2024, 6, 1), meeting)
	if !exact.Compliant || exact.DaysRemaining != 0 {
		t.Fatalf("ten full days of notice must pass: %+v", exact)
	}
	if !exact.Deadline.Equal(date(2024, 6, 1)) {
		t.Fatalf("deadline must be ten days before the meeting, got %s", exact.Deadline)
	}

	short := AssemblyNotice(date(2024, 6, 2), meeting)
	if short.Compliant || short.DaysRemaining != -1 {
		t.Fatalf("nine days of notice must fail: %+v", short)
	}

	early := AssemblyNotice(date(2024, 5, 20), meeting)
	if !early.Compliant || early.DaysRemaining != 12 {
		t.Fatalf("early convocation leaves slack: %+v", early)
	}
}

func TestAgendaProposalBoundary(t *testing.T) {
	meeting := date(2024, 6, 15)

	if result := AgendaProposal(date(2024, 6, 1), meeting); !result.Compliant {
		t.Fatalf("fourteen days ahead must pass: %+v", result)
	}
	if result := AgendaProposal(date(2024, 6, 2), meeting); result.Compliant {
		t.Fatalf("thirteen days ahead must fail: %+v", result)
	}
}

func TestResultPublicationBoundary(t *testing.T) {
	meeting := date(2024, 6, 1)

	if result := ResultPublication(meeting, date(2024, 7, 1)); !result.Compliant {
		t.Fatalf("publication on day thirty must pass: %+v", result)
	}
	if result := ResultPublication(meeting, date(2024, 7, 2)); result.Compliant {
		t.Fatalf("publication on day thirty-one must fail: %+v", result)
	}
}

func TestDuesGraceBoundary(t *testing.T) {
	due := date(2024, 1, 31)

	if result := DuesGrace(due, date(2024, 4, 30)); !result.Compliant {
		t.Fatalf("day ninety is inside the window: %+v", result)
	}
	if result := DuesGrace(due, date(2024, 5, 1)); result.Compliant {
		t.Fatalf("day ninety-one is outside the window: %+v", result)
	}
}

func TestExtraordinaryQuorumRoundsUp(t *testing.T) {
	cases := []struct {
		active   int
		required int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{10, 3},
		{100, 25},
		{101, 26},
	}
	for _, tc := range cases {
		result := ExtraordinaryQuorum(0, tc.active)
		if result.Required != tc.required {
			t.Fatalf("quorum for %d active members: expected %d, got %d", tc.active, tc.required, result.Required)
		}
	}

	met := ExtraordinaryQuorum(3, 10)
	if !met.Compliant {
		t.Fatalf("three of three required requesters must pass: %+v", met)
	}
	short := ExtraordinaryQuorum(2, 10)
	if short.Compliant {
		t.Fatalf("two of three required requesters must fail: %+v", short)
	}
}

func TestSeatVacancyReasons(t *testing.T) {
	asOf := date(2024, 6, 1)
	base := entities.ExecutiveSeat{
		SeatID:       "seat-1",
		PositionCode: "secretary",
		HolderID:     "member-1",
		TermStart:    date(2023, 1, 1),
	}

	if report := SeatVacancy(base, asOf); report.Vacant {
		t.Fatalf("a held seat within limits is not vacant: %+v", report)
	}

	resigned := base
	resigned.Resigned = true
	if report := SeatVacancy(resigned, asOf); !report.Vacant || len(report.Reasons) != 1 {
		t.Fatalf("resignation vacates the seat: %+v", report)
	}

	expired := base
	expired.TermEnd = date(2024, 1, 1)
	if report := SeatVacancy(expired, asOf); !report.Vacant {
		t.Fatalf("an expired term vacates the seat: %+v", report)
	}

	atLimit := base
	atLimit.AssemblyAbsences = 3
	atLimit.MeetingAbsences = 5
	if report := SeatVacancy(atLimit, asOf); report.Vacant {
		t.Fatalf("absences at the limit do not vacate the seat: %+v", report)
	}

	overLimit := base
	overLimit.AssemblyAbsences = 4
	overLimit.MeetingAbsences = 6
	report := SeatVacancy(overLimit, asOf)
	if !report.Vacant || len(report.Reasons) != 2 {
		t.Fatalf("both absence counts past their limit must be reported: %+v", report)
	}
}
