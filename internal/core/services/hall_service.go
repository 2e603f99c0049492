package services

import (
	"context"
	"errors"
	"strings"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/core/domain"

	"gorm.io/gorm"
)

// Hall service errors
var (
	ErrHallCodeTaken = errors.New("hall code already in use")
)

// HallInput is the create/update payload for a hall.
type HallInput struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Code          string `json:"code" validate:"required,min=2,max=20"`
	Capacity      int    `json:"capacity" validate:"min=0"`
	IsActive      *bool  `json:"is_active"`
	IsFoodCounter *bool  `json:"is_food_counter"`
}

// HallService handles hall management
type HallService struct {
	hallRepo repositories.HallRepository
}

// NewHallService creates a new hall service
func NewHallService(hallRepo repositories.HallRepository) *HallService {
	return &HallService{hallRepo: hallRepo}
}

// CreateHall creates a hall
func (s *HallService) CreateHall(ctx context.Context, input HallInput) (*models.Hall, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))

	if input.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if input.Code == "" {
		return nil, domain.NewValidationError("code", "is required")
	}
	if input.Capacity < 0 {
		return nil, domain.NewValidationError("capacity", "must not be negative")
	}

	hall := &models.Hall{
		Name:     input.Name,
		Code:     input.Code,
		Capacity: input.Capacity,
		IsActive: true,
	}
	if input.IsActive != nil {
		hall.IsActive = *input.IsActive
	}
	if input.IsFoodCounter != nil {
		hall.IsFoodCounter = *input.IsFoodCounter
	}

	if err := s.hallRepo.Create(ctx, hall); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHallCodeTaken
		}
		return nil, err
	}
	return hall, nil
}

// GetHall gets a hall by ID
func (s *HallService) GetHall(ctx context.Context, id uint) (*models.Hall, error) {
	hall, err := s.hallRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return hall, nil
}

// ListHalls lists halls, optionally including deactivated ones
func (s *HallService) ListHalls(ctx context.Context, includeInactive bool) ([]models.Hall, error) {
	return s.hallRepo.List(ctx, includeInactive)
}

// UpdateHall applies a partial update to a hall.
func (s *HallService) UpdateHall(ctx context.Context, id uint, input HallInput) (*models.Hall, error) {
	hall, err := s.hallRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		hall.Name = name
	}
	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" {
		hall.Code = code
	}
	if input.Capacity > 0 {
		hall.Capacity = input.Capacity
	}
	if input.IsActive != nil {
		hall.IsActive = *input.IsActive
	}
	if input.IsFoodCounter != nil {
		hall.IsFoodCounter = *input.IsFoodCounter
	}

	if err := s.hallRepo.Update(ctx, hall); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHallCodeTaken
		}
		return nil, err
	}
	return hall, nil
}

// DeleteHall soft deletes a hall. Closed and open sessions keep their
// foreign keys; scans at the deleted hall simply stop resolving.
func (s *HallService) DeleteHall(ctx context.Context, id uint) error {
	if _, err := s.hallRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHallNotFound
		}
		return err
	}
	return s.hallRepo.Delete(ctx, id)
}
