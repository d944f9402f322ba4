package entity

import (
	"testing"
	"time"
)

func TestProjectTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{ProjectStatusDraft, ProjectStatusQuoted, true},
		{ProjectStatusDraft, ProjectStatusApproved, false},
		{ProjectStatusQuoted, ProjectStatusApproved, true},
		{ProjectStatusQuoted, ProjectStatusDraft, true},
		{ProjectStatusApproved, ProjectStatusInProduction, true},
		{ProjectStatusApproved, ProjectStatusInstalled, false},
		{ProjectStatusInProduction, ProjectStatusInstalled, true},
		{ProjectStatusInstalled, ProjectStatusClosed, true},
		{ProjectStatusClosed, ProjectStatusDraft, false},
		// cancellation is allowed from any live status
		{ProjectStatusDraft, ProjectStatusCancelled, true},
		{ProjectStatusInProduction, ProjectStatusCancelled, true},
		{ProjectStatusClosed, ProjectStatusCancelled, false},
		{ProjectStatusCancelled, ProjectStatusCancelled, false},
	}

	for _, tc := range cases {
		p := &Project{Status: tc.from}
		if got := p.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("project %s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestQuoteTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{QuoteStatusDraft, QuoteStatusSent, true},
		{QuoteStatusDraft, QuoteStatusAccepted, false},
		{QuoteStatusSent, QuoteStatusAccepted, true},
		{QuoteStatusSent, QuoteStatusDeclined, true},
		{QuoteStatusSent, QuoteStatusExpired, true},
		// declined and expired quotes can be revised and re-sent
		{QuoteStatusDeclined, QuoteStatusSent, true},
		{QuoteStatusExpired, QuoteStatusSent, true},
		// accepted is terminal
		{QuoteStatusAccepted, QuoteStatusSent, false},
		{QuoteStatusAccepted, QuoteStatusDeclined, false},
	}

	for _, tc := range cases {
		q := &Quote{Status: tc.from}
		if got := q.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("quote %s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestQuoteEditable(t *testing.T) {
	if !(&Quote{Status: QuoteStatusDraft}).Editable() {
		t.Error("draft quote should be editable")
	}
	for _, status := range []string{QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired} {
		if (&Quote{Status: status}).Editable() {
			t.Errorf("%s quote should not be editable", status)
		}
	}
}

func TestAppointmentOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	appt := &Appointment{
		StartsAt: base,
		EndsAt:   base.Add(2 * time.Hour),
	}

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{"identical window", base, base.Add(2 * time.Hour), true},
		{"contained", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"straddles start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"straddles end", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"back to back before", base.Add(-time.Hour), base, false},
		{"back to back after", base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
		{"well before", base.Add(-3 * time.Hour), base.Add(-2 * time.Hour), false},
		{"well after", base.Add(4 * time.Hour), base.Add(5 * time.Hour), false},
	}

	for _, tc := range cases {
		if got := appt.Overlaps(tc.start, tc.end); got != tc.overlaps {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.overlaps, got)
		}
	}
}
