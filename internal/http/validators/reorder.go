package validators

import (
	apperrors "taskflow.com/taskflow/internal/errors"
)

func ValidateReorderRequest(taskID string) error {
	if taskID == "" {
		return apperrors.ErrTaskIDRequired
	}
	return nil
}
