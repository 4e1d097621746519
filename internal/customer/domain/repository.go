package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is read-only: customers are managed by an external system and
// only joined here for display.
type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB) ([]*Customer, error)
}

var ErrCustomerNotFound = errors.New("customer_not_found")
