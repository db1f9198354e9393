package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/utils"
)

// GoalService manages the savings goals of a user.
type GoalService interface {
	List(ctx context.Context, userID uint) ([]entity.Goal, error)
	Create(ctx context.Context, userID uint, req *dto.CreateGoalRequest) (*entity.Goal, error)
	Get(ctx context.Context, userID, id uint) (*entity.Goal, error)
	Update(ctx context.Context, userID, id uint, req *dto.UpdateGoalRequest) (*entity.Goal, error)
	Delete(ctx context.Context, userID, id uint) error
}

// NewGoalService creates a new goal service.
func NewGoalService(goalRepo repository.GoalRepository, log *logger.Logger) GoalService {
	return &goalService{goalRepo: goalRepo, logger: log}
}

type goalService struct {
	goalRepo repository.GoalRepository
	logger   *logger.Logger
}

var errGoalNotFound = apperror.New(apperror.KindNotFound, "Goal not found")

func (s *goalService) List(ctx context.Context, userID uint) ([]entity.Goal, error) {
	goals, err := s.goalRepo.FindAllByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list goals", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch goals", err)
	}
	return goals, nil
}

func (s *goalService) Create(ctx context.Context, userID uint, req *dto.CreateGoalRequest) (*entity.Goal, error) {
	goal := &entity.Goal{
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Category:      entity.GoalCategoryCustom,
	}
	if req.Category != "" {
		goal.Category = entity.GoalCategory(strings.ToLower(req.Category))
	}
	if req.TargetDate != "" {
		date, err := parseGoalDate(req.TargetDate)
		if err != nil {
			return nil, err
		}
		goal.TargetDate = date
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create goal", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to create goal", err)
	}
	return goal, nil
}

func (s *goalService) Get(ctx context.Context, userID, id uint) (*entity.Goal, error) {
	goal, err := s.goalRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errGoalNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get goal", logger.ErrorField(err), logger.Field("goal_id", id))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch goal", err)
	}
	return goal, nil
}

func (s *goalService) Update(ctx context.Context, userID, id uint, req *dto.UpdateGoalRequest) (*entity.Goal, error) {
	goal, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		goal.Name = strings.TrimSpace(*req.Name)
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.Category != nil {
		goal.Category = entity.GoalCategory(strings.ToLower(*req.Category))
	}
	if req.TargetDate != nil {
		if *req.TargetDate == "" {
			goal.TargetDate = nil
		} else {
			date, err := parseGoalDate(*req.TargetDate)
			if err != nil {
				return nil, err
			}
			goal.TargetDate = date
		}
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errGoalNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to update goal", logger.ErrorField(err), logger.Field("goal_id", id))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to update goal", err)
	}
	return goal, nil
}

func (s *goalService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.goalRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errGoalNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to delete goal", logger.ErrorField(err), logger.Field("goal_id", id))
		return apperror.Wrap(apperror.KindInternal, "Failed to delete goal", err)
	}
	return nil
}

// validateGoal checks the invariants and derives Achieved.
func validateGoal(goal *entity.Goal) error {
	switch {
	case goal.Name == "":
		return apperror.New(apperror.KindValidation, "Goal name is required")
	case goal.TargetAmount <= 0:
		return apperror.New(apperror.KindValidation, "Target amount must be greater than zero")
	case goal.CurrentAmount < 0:
		return apperror.New(apperror.KindValidation, "Current amount must not be negative")
	case !goal.Category.Valid():
		return apperror.New(apperror.KindValidation, "Category must be one of retirement, education, home, custom")
	}
	goal.Achieved = goal.CurrentAmount >= goal.TargetAmount
	return nil
}

func parseGoalDate(value string) (*time.Time, error) {
	date, err := utils.ParseDate(value)
	if err != nil {
		return nil, apperror.New(apperror.KindValidation, "target_date must be YYYY-MM-DD")
	}
	return &date, nil
}
