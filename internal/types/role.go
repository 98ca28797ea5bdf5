package types

// Enum values for privileged pool roles
type Role string

const (
	// RoleOwner may create manual snapshots, tune parameters and reassign roles
	RoleOwner Role = "OWNER"
	// RoleInvestor may report profit/loss for distribution
	RoleInvestor Role = "INVESTOR"
	// RolePauser may toggle the pause switch
	RolePauser Role = "PAUSER"
)

func (r Role) String() string {
	return string(r)
}
