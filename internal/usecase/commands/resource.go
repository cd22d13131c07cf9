package commands

import (
	"context"
	"log/slog"

	"slot-capacity-engine/internal/domain/resource"
	"slot-capacity-engine/internal/pkg/clock"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/shared"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CreateResourceInput struct {
	OwnerID        uuid.UUID `validate:"required"`
	Name           string    `validate:"required,max=255"`
	Capacity       int       `validate:"required,min=1,max=2147483647"`
	UnitPriceCents int64     `validate:"min=0"`
}

type ResourceCommands interface {
	CreateResource(ctx context.Context, in CreateResourceInput) (*resource.Resource, error)
}

type resourceUseCaseImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger
}

func NewResourceUseCase(uow shared.UnitOfWork, clk clock.Clock, validate *validator.Validate, logger *slog.Logger) ResourceCommands {
	return &resourceUseCaseImpl{uow: uow, clock: clk, validate: validate, logger: logger}
}

func (uc *resourceUseCaseImpl) CreateResource(ctx context.Context, in CreateResourceInput) (*resource.Resource, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}

	res, err := resource.NewResource(in.OwnerID, in.Name, in.Capacity, in.UnitPriceCents, uc.clock.Now())
	if err != nil {
		return nil, validationErr(err)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Resources().Create(ctx, tx.DB(), res); err != nil {
			return storeErr(err, errs.ErrResourceNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("resource created",
		"resource_id", res.ID(),
		"owner_id", res.OwnerID(),
		"capacity", res.Capacity())
	return res, nil
}
