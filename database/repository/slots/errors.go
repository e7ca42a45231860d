package slotsRepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"studiobook/models"
)

// mapMongoErr translates driver errors into the domain taxonomy.
func mapMongoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return fmt.Errorf("%s: %w", op, models.ErrRepositoryTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
