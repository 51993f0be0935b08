package employee

// Role drives route-level authorization in the HTTP layer.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Employee is the flat directory record this core consumes. The employee
// aggregate itself (profile, org placement, contracts) is owned by the
// directory module; attendance and leave only need these references.
type Employee struct {
	ID        string
	UserID    string
	FullName  string
	ShiftID   *string
	ManagerID *string
	Active    bool
}
