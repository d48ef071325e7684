package models

import (
	"errors"
	"fmt"
)

// UnknownTeamError means a team id could not be resolved against the sport's
// roster. Fatal for the single evaluation, never for the batch.
type UnknownTeamError struct {
	TeamID   string
	SportKey string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team %q for sport %s", e.TeamID, e.SportKey)
}

// IsUnknownTeam reports whether err is an UnknownTeamError
func IsUnknownTeam(err error) bool {
	var ute *UnknownTeamError
	return errors.As(err, &ute)
}
