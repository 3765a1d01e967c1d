package example

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

type Invite struct {
	Status InviteStatus
}

type Member struct {
	UserID int64
	Role   MemberRole
}

func bad() {
	inv := &Invite{}
	inv.Status = "rejected" // want "enum field Status assigned string literal"

	_ = Member{UserID: 1, Role: "owner"} // want "enum field Role assigned string literal"
}

func good() {
	inv := &Invite{}
	inv.Status = InviteStatusAccepted // OK: using constant

	_ = Member{UserID: 1, Role: MemberRoleAdmin}
}

func alsoGood() {
	// OK: Variable, not literal
	role := MemberRoleMember
	m := Member{Role: role}
	_ = m

	labels := map[string]string{"role": "admin"}
	_ = labels
}
