package notification

import (
	"time"
)

// Type is the display severity of a notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

func (t Type) Valid() bool {
	return t == TypeInfo || t == TypeWarning || t == TypeSuccess || t == TypeError
}

// Category is the domain area a notification belongs to.
type Category string

const (
	CategoryAttendance Category = "attendance"
	CategoryAdjustment Category = "adjustment"
	CategorySystem     Category = "system"
)

// AudienceKind addresses a notification to an individual, every
// employee, or everyone holding a role. This replaces overloading the
// employee id with sentinel values.
type AudienceKind string

const (
	AudienceIndividual AudienceKind = "individual"
	AudienceBroadcast  AudienceKind = "broadcast"
	AudienceRole       AudienceKind = "role"
)

// Audience identifies who should see a notification.
type Audience struct {
	Kind AudienceKind
	// Value is an employee id for individual, "all" for broadcast, or a
	// role name for role.
	Value string
}

// Individual addresses a single employee.
func Individual(employeeID string) Audience {
	return Audience{Kind: AudienceIndividual, Value: employeeID}
}

// Broadcast addresses every employee.
func Broadcast() Audience {
	return Audience{Kind: AudienceBroadcast, Value: "all"}
}

// ForRole addresses everyone holding a role (e.g. the HR mailbox).
func ForRole(role string) Audience {
	return Audience{Kind: AudienceRole, Value: role}
}

// Topic returns the subscription topic this audience publishes to.
func (a Audience) Topic() string {
	switch a.Kind {
	case AudienceBroadcast:
		return "broadcast:all"
	case AudienceRole:
		return "role:" + a.Value
	default:
		return a.Value
	}
}

func (a Audience) Valid() bool {
	switch a.Kind {
	case AudienceIndividual, AudienceRole:
		return a.Value != ""
	case AudienceBroadcast:
		return a.Value == "all"
	default:
		return false
	}
}

// Notification is a fire-and-forget event record.
type Notification struct {
	ID        string
	Audience  Audience
	Title     string
	Message   string
	Type      Type
	Category  Category
	Data      map[string]interface{}
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
