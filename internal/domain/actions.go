package domain

// TicketActions describes which operations a detail view currently offers.
// This is presentation gating only; the API re-checks every action and its
// answer wins.
type TicketActions struct {
	Assume   bool `json:"assume"`
	Respond  bool `json:"respond"`
	Finish   bool `json:"finish"`
	Transfer bool `json:"transfer"`
	Cancel   bool `json:"cancel"`
}

// ActionsFor computes the offered actions for viewer on ticket.
//
// Staff viewers get the dashboard affordances: assume while unassigned,
// respond once triage has started, finish/transfer only as the current
// assignee. Requester viewers get respond (only after a staff reply exists)
// and cancel on their own ticket. An unassigned ticket offers assume and
// nothing else.
func ActionsFor(t *Ticket, viewer *User) TicketActions {
	if t == nil || viewer == nil {
		return TicketActions{}
	}
	if t.Status.Terminal() {
		return TicketActions{}
	}

	var a TicketActions
	if viewer.IsStaff() {
		a.Assume = t.Status == StatusUnassigned && t.Status.CanTransition(StatusPending)
		a.Respond = t.Status != StatusUnassigned
		a.Finish = t.Status.CanTransition(StatusDone) && t.Assignee() != "" && t.Assignee() == viewer.Nome
		a.Transfer = t.Status != StatusUnassigned && t.Assignee() == viewer.Nome
		return a
	}

	if !t.OwnedBy(viewer) {
		return TicketActions{}
	}
	a.Respond = t.Status != StatusUnassigned && t.HasStaffResponse()
	a.Cancel = t.Status.CanTransition(StatusCancelled)
	return a
}
