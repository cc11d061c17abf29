// Package users persists identity records.
package users

import (
	"context"

	"github.com/dmitrijs2005/mindcare/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in ID. A taken email yields
	// common.ErrorAlreadyExists and writes nothing.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
