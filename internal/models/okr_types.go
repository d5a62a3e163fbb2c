package models

type ObjectiveType string

const (
	ObjectiveTypeTeam         ObjectiveType = "team"
	ObjectiveTypeCrossCutting ObjectiveType = "cross_cutting"
	ObjectiveTypeIndividual   ObjectiveType = "individual"
)

func (t ObjectiveType) Valid() bool {
	switch t {
	case ObjectiveTypeTeam, ObjectiveTypeCrossCutting, ObjectiveTypeIndividual:
		return true
	}
	return false
}

type ObjectiveStatus string

const (
	ObjectiveStatusDraft     ObjectiveStatus = "draft"
	ObjectiveStatusActive    ObjectiveStatus = "active"
	ObjectiveStatusCompleted ObjectiveStatus = "completed"
	ObjectiveStatusCancelled ObjectiveStatus = "cancelled"
)

func (s ObjectiveStatus) Valid() bool {
	switch s {
	case ObjectiveStatusDraft, ObjectiveStatusActive, ObjectiveStatusCompleted, ObjectiveStatusCancelled:
		return true
	}
	return false
}

// KRStatus is the red/amber/green health tag of a key result.
type KRStatus string

const (
	StatusOnTrack  KRStatus = "on_track"
	StatusAtRisk   KRStatus = "at_risk"
	StatusOffTrack KRStatus = "off_track"
)

func (s KRStatus) Valid() bool {
	switch s {
	case StatusOnTrack, StatusAtRisk, StatusOffTrack:
		return true
	}
	return false
}

type AssignmentType string

const (
	AssignmentUnassigned      AssignmentType = "unassigned"
	AssignmentTeam            AssignmentType = "team"
	AssignmentIndividual      AssignmentType = "individual"
	AssignmentMultiIndividual AssignmentType = "multi_individual"
)

func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentUnassigned, AssignmentTeam, AssignmentIndividual, AssignmentMultiIndividual:
		return true
	}
	return false
}

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleTeamLead UserRole = "team_lead"
	RoleMember   UserRole = "member"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeamLead, RoleMember:
		return true
	}
	return false
}
