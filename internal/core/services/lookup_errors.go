package services

import (
	"fmt"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
)

func errTeamNotFound(id string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrTeamNotFound, id)
}

func errVolunteerNotFound(id string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrVolunteerNotFound, id)
}

func errJudgeNotFound(id string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrJudgeNotFound, id)
}

func errHelpRequestNotFound(id string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrHelpRequestNotFound, id)
}

func errAnnouncementNotFound(id string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrAnnouncementNotFound, id)
}
