package services

import "errors"

var (
	ErrTeamAssignmentNotAllowed = errors.New("key result's objective has no team")
	ErrInvalidAssignmentType    = errors.New("invalid assignment type")
	ErrInvalidAssignee          = errors.New("assignee is required")
	ErrInvalidStatus            = errors.New("invalid status")
	ErrInvalidObjective         = errors.New("invalid objective")
	ErrInvalidCycle             = errors.New("invalid cycle")
	ErrTitleRequired            = errors.New("title is required")
	ErrNameRequired             = errors.New("name is required")
	ErrInvalidRole              = errors.New("invalid role")
	ErrNotOrganisationMember    = errors.New("user is not a member of the organisation")
	ErrForbidden                = errors.New("admin role required")
)
