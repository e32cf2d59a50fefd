package controllers

import (
	"errors"

	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/utils"
)

// storeError maps repository sentinels onto API errors.
func storeError(err error, notFoundMsg string) *utils.AppError {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.NotFound(40401, notFoundMsg)
	case errors.Is(err, repository.ErrNotOwner):
		return utils.Unauthorized(40310, "you are not allowed to modify this resource")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return utils.NewAppError(utils.KindDuplicateEmail, 40009, "email already registered")
	default:
		return utils.Internal(50001, err)
	}
}
