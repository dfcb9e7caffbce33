package controllers

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
}

func paginationMeta(page, pageSize int, total int64) PaginationMeta {
	return PaginationMeta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// The relationship invariants live in unique and check constraints, so the
// insert itself reports violations; these helpers classify the driver error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "check")
}
