package domain

import "testing"

func TestStatusTransitions(t *testing.T) {
	all := []ReservationStatus{ReservationPending, ReservationApproved, ReservationRejected, ReservationCancelled}

	allowed := map[ReservationStatus]map[ReservationStatus]bool{
		ReservationPending: {
			ReservationApproved:  true,
			ReservationRejected:  true,
			ReservationCancelled: true,
		},
		ReservationApproved: {
			ReservationCancelled: true,
		},
		ReservationRejected:  {},
		ReservationCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransition(to)
			want := allowed[from][to]
			if got != want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if ReservationPending.Terminal() || ReservationApproved.Terminal() {
		t.Fatal("pending and approved must not be terminal")
	}
	if !ReservationRejected.Terminal() || !ReservationCancelled.Terminal() {
		t.Fatal("rejected and cancelled must be terminal")
	}
}

func TestReservationOccupies(t *testing.T) {
	tests := []struct {
		status ReservationStatus
		want   bool
	}{
		{ReservationPending, true},
		{ReservationApproved, true},
		{ReservationRejected, false},
		{ReservationCancelled, false},
	}
	for _, tt := range tests {
		r := &Reservation{Status: tt.status}
		if r.Occupies() != tt.want {
			t.Errorf("Occupies() with status %s = %v, want %v", tt.status, r.Occupies(), tt.want)
		}
	}
}
