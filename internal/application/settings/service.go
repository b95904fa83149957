package settings

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/identity"
	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the admin surface for business settings. All writes go
// through here; the ledger engine only reads through the resolver.
// Concurrent edits to the same setting resolve last-write-wins.
type Service struct {
	repo     settings.Repository
	userRepo identity.Repository
	logger   *zap.Logger
}

// NewService creates a settings service
func NewService(repo settings.Repository, userRepo identity.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// checkAdmin verifies the actor may manage settings
func (s *Service) checkAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Active || actor.Role != identity.RoleAdmin {
		return shared.NewDomainError(shared.CodePreconditionFailed, "Only admins can manage settings")
	}
	return nil
}

// Create adds a new, immediately active setting
func (s *Service) Create(ctx context.Context, cmd CreateSettingCommand) (*SettingResponse, error) {
	if err := s.checkAdmin(ctx, cmd.CreatedBy); err != nil {
		return nil, err
	}

	setting, err := settings.NewBusinessSetting(cmd.CategoryID, cmd.Key, cmd.Value, cmd.DataType, cmd.CreatedBy)
	if err != nil {
		return nil, err
	}
	if cmd.OutletID != nil {
		setting.ScopeToOutlet(*cmd.OutletID)
	}
	if cmd.CylinderType != nil {
		setting.ScopeToCylinderType(*cmd.CylinderType)
	}
	if cmd.OperationType != nil {
		if !cmd.OperationType.IsValid() {
			return nil, shared.NewDomainError("INVALID_OPERATION_TYPE", "Unknown operation type")
		}
		setting.ScopeToOperation(*cmd.OperationType)
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info("setting created",
		zap.String("key", setting.SettingKey),
		zap.String("setting_id", setting.ID.String()),
		zap.String("created_by", cmd.CreatedBy.String()))

	resp := ToSettingResponse(setting)
	return &resp, nil
}

// Update replaces a setting's value, last write wins
func (s *Service) Update(ctx context.Context, cmd UpdateSettingCommand) (*SettingResponse, error) {
	if err := s.checkAdmin(ctx, cmd.UpdatedBy); err != nil {
		return nil, err
	}

	setting, err := s.repo.FindByID(ctx, cmd.SettingID)
	if err != nil {
		return nil, err
	}
	if err := setting.UpdateValue(cmd.Value, cmd.UpdatedBy); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info("setting updated",
		zap.String("key", setting.SettingKey),
		zap.String("setting_id", setting.ID.String()),
		zap.String("updated_by", cmd.UpdatedBy.String()))

	resp := ToSettingResponse(setting)
	return &resp, nil
}

// Deactivate removes a setting from resolution, keeping the record
func (s *Service) Deactivate(ctx context.Context, settingID, actorID uuid.UUID) error {
	if err := s.checkAdmin(ctx, actorID); err != nil {
		return err
	}

	setting, err := s.repo.FindByID(ctx, settingID)
	if err != nil {
		return err
	}
	setting.Deactivate(actorID)
	if err := s.repo.Save(ctx, setting); err != nil {
		return err
	}

	s.logger.Info("setting deactivated",
		zap.String("key", setting.SettingKey),
		zap.String("setting_id", setting.ID.String()))
	return nil
}

// Get returns one setting by ID
func (s *Service) Get(ctx context.Context, settingID uuid.UUID) (*SettingResponse, error) {
	setting, err := s.repo.FindByID(ctx, settingID)
	if err != nil {
		return nil, err
	}
	resp := ToSettingResponse(setting)
	return &resp, nil
}

// ListByKey returns all active settings for a key, every scope
func (s *Service) ListByKey(ctx context.Context, key string) ([]SettingResponse, error) {
	values, err := s.repo.FindActiveByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]SettingResponse, 0, len(values))
	for i := range values {
		out = append(out, ToSettingResponse(&values[i]))
	}
	return out, nil
}

// ListByCategory returns the settings in a category
func (s *Service) ListByCategory(ctx context.Context, categoryID int, filter shared.Filter) ([]SettingResponse, error) {
	values, err := s.repo.FindByCategory(ctx, categoryID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]SettingResponse, 0, len(values))
	for i := range values {
		out = append(out, ToSettingResponse(&values[i]))
	}
	return out, nil
}
