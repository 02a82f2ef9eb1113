package team

import "errors"

var (
	ErrTeamNotFound  = errors.New("team not found")
	ErrNameExists    = errors.New("a team with this name already exists")
	ErrAlreadyMember = errors.New("user is already a member of this team")
	ErrNotMember     = errors.New("user is not a member of this team")
)
