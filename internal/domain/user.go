package domain

// StaffTeam is the distinguished team label that unlocks the dashboard
// (staff) views; every other team sees the requester portal.
const StaffTeam = "T.I"

// User is the portal's view of an account as returned by the external API.
// Password is write-only: it appears in create/update payloads and is never
// echoed back.
type User struct {
	ID     string `json:"id"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Equipe string `json:"equipe"`
}

// IsStaff reports whether the user belongs to the staff team.
func (u *User) IsStaff() bool {
	return u != nil && u.Equipe == StaffTeam
}
