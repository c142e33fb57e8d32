package unit

import (
	"context"
	"testing"
	"time"

	assemblycompliance "amicale/contexts/governance/assembly-compliance"
	"amicale/contexts/governance/assembly-compliance/domain/entities"
)

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestAssemblyNoticeDeadline(t *testing.T) {
	module := assemblycompliance.NewInMemoryModule(nil)
	module.Store.SetAssembly(entities.Assembly{
		AssemblyID:      "assembly-on-time",
		Type:            entities.AssemblyExtraordinary,
		ConvocationDate: day(2024, 6, 1),
		MeetingDate:     day(2024, 6, 11),
	})
	module.Store.SetAssembly(entities.Assembly{
		AssemblyID:      "assembly-late",
		Type:            entities.AssemblyExtraordinary,
		ConvocationDate: day(2024, 6, 2),
		MeetingDate:     day(2024, 6, 11),
	})

	onTime, err := module.Handler.AssemblyNoticeHandler(context.Background(), "assembly-on-time")
	if err != nil {
		t.Fatalf("notice check failed: %v", err)
	}
	if !onTime.Compliant || onTime.DaysRemaining != 0 {
		t.Fatalf("ten full days of notice must pass, got %+v", onTime)
	}

	late, err := module.Handler.AssemblyNoticeHandler(context.Background(), "assembly-late")
	if err != nil {
		t.Fatalf("notice check failed: %v", err)
	}
	if late.Compliant || late.DaysRemaining != -1 {
		t.Fatalf("nine days of notice must fail, got %+v", late)
	}
}

func TestAgendaProposalDeadline(t *testing.T) {
	module := assemblycompliance.NewInMemoryModule(nil)
	module.Store.SetAssembly(entities.Assembly{
		AssemblyID:  "assembly-1",
		Type:        entities.AssemblyOrdinary,
		MeetingDate: day(2024, 6, 15),
	})

	onTime, err := module.Handler.AgendaProposalHandler(context.Background(), "assembly-1", day(2024, 6, 1))
	if err != nil {
		t.Fatalf("agenda check failed: %v", err)
	}
	if !onTime.Compliant {
		t.Fatalf("proposal fourteen days ahead must pass, got %+v", onTime)
	}

	late, err := module.Handler.AgendaProposalHandler(context.Background(), "assembly-1", day(2024, 6, 2))
	if err != nil {
		t.Fatalf("agenda check failed: %v", err)
	}
	if late.Compliant {
		t.Fatalf("proposal thirteen days ahead must fail, got %+v", late)
	}
}

func TestResultPublicationDeadline(t *testing.T) {
	module := assemblycompliance.NewInMemoryModule(nil)
	module.Store.SetAssembly(entities.Assembly{
		AssemblyID:  "assembly-1",
		Type:        entities.AssemblyOrdinary,
		MeetingDate: day(2024, 6, 1),
	})

	onTime, err := module.Handler.ResultPublicationHandler(context.Background(), "assembly-1", day(2024, 7, 1))
	if err != nil {
		t.Fatalf("publication check failed: %v", err)
	}
	if !onTime.Compliant || onTime.DaysRemaining != 0 {
		t.Fatalf("publication on day thirty must pass, got %+v", onTime)
	}

	late, err := module.Handler.ResultPublicationHandler(context.Background(), "assembly-1", day(2024, 7, 2))
	if err != nil {
		t.Fatalf("publication check failed: %v", err)
	}
	if late.Compliant || late.DaysRemaining != -1 {
		t.Fatalf("publication on day thirty-one must fail, got %+v", late)
	}
}

func TestDuesGraceDeadline(t *testing.T) {
	module := assemblycompliance.NewInMemoryModule(nil)
	due := day(2024, 1, 31)

	within, err := module.Handler.DuesGraceHandler(context.Background(), due, day(2024, 4, 30))
	if err != nil {
		t.Fatalf("grace check failed: %v", err)
	}
	if !within.Compliant || within.DaysRemaining != 0 {
		t.Fatalf("day ninety is still inside the grace window, got %+v", within)
	}

	past, err := module.Handler.DuesGraceHandler(context.Background(), due, day(2024, 5, 1))
	if err != nil {
		t.Fatalf("grace check failed: %v", err)
	}
	if past.Compliant || past.DaysRemaining != -1 {
		t.Fatalf("day ninety-one is past the grace window, got %+v", past)
	}
}

func TestExtraordinaryQuorum(t *testing.T) {
	module := assemblycompliance.NewInMemoryModule(nil)
	module.Store.SetActiveMemberCount(10)

	short, err := module.Handler.ExtraordinaryQuorumHandler(context.Background(), 2)
	if err != nil {
		t.Fatalf("quorum check failed: %v", err)
	}
	if short.Required != 3 {
		t.Fatalf("a quarter of ten members rounds up to three, got %d", short.Required)
	}
	if short.Compliant {
		t.Fatalf("two requesters out of three required must fail")
	}

	met, err := module.Handler.ExtraordinaryQuorumHandler(context.Background(), 3)
	if err != nil {
		t.Fatalf("quorum check failed: %v", err)
	}
	if !met.Compliant {
		t.Fatalf("three requesters out of three required must pass")
	}
}

func TestSeatVacancy(t *testing.T) {
	module := assemblycompliance.NewInMemoryModule(nil)
	term := day(2024, 1, 1)
	module.Store.SetSeat(entities.ExecutiveSeat{
		SeatID:       "seat-resigned",
		PositionCode: "secretary",
		HolderID:     "member-1",
		TermStart:    term,
		Resigned:     true,
	})
	module.Store.SetSeat(entities.ExecutiveSeat{
		SeatID:           "seat-absent",
		PositionCode:     "treasurer",
		HolderID:         "member-2",
		TermStart:        term,
		AssemblyAbsences: 4,
	})
	module.Store.SetSeat(entities.ExecutiveSeat{
		SeatID:           "seat-held",
		PositionCode:     "president",
		HolderID:         "member-3",
		TermStart:        term,
		AssemblyAbsences: 3,
		MeetingAbsences:  5,
	})

	resigned, err := module.Handler.SeatVacancyHandler(context.Background(), "seat-resigned")
	if err != nil {
		t.Fatalf("vacancy check failed: %v", err)
	}
	if !resigned.Vacant || len(resigned.Reasons) == 0 {
		t.Fatalf("a resigned holder vacates the seat, got %+v", resigned)
	}

	absent, err := module.Handler.SeatVacancyHandler(context.Background(), "seat-absent")
	if err != nil {
		t.Fatalf("vacancy check failed: %v", err)
	}
	if !absent.Vacant {
		t.Fatalf("four assembly absences exceed the limit of three, got %+v", absent)
	}

	held, err := module.Handler.SeatVacancyHandler(context.Background(), "seat-held")
	if err != nil {
		t.Fatalf("vacancy check failed: %v", err)
	}
	if held.Vacant {
		t.Fatalf("absences at the limit do not vacate the seat, got %+v", held)
	}
}
