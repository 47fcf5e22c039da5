package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zone_heating/internal/models"
	"zone_heating/internal/repository"
)

const defaultEcoTempC = 17.0

type SettingsService struct {
	repo       repository.SettingsRepo
	defaultEco float64
}

// NewSettingsService uses defaultEco until settings were saved once.
func NewSettingsService(repo repository.SettingsRepo, defaultEco float64) *SettingsService {
	if defaultEco <= 0 {
		defaultEco = defaultEcoTempC
	}
	return &SettingsService{repo: repo, defaultEco: defaultEco}
}

func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	st, err := s.repo.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Settings{EcoTempC: s.defaultEco}, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return st, nil
}

func (s *SettingsService) UpdateEcoTemp(ctx context.Context, ecoC float64) (models.Settings, error) {
	if !models.ValidEcoTemp(ecoC) {
		return models.Settings{}, fmt.Errorf("%w: eco temperature must be between %.0f and %.0f", ErrInvalidSetting, models.MinEcoTempC, models.MaxEcoTempC)
	}
	st := models.Settings{EcoTempC: ecoC, UpdatedAt: time.Now().UTC()}
	if err := s.repo.Save(ctx, st); err != nil {
		return models.Settings{}, err
	}
	return st, nil
}

func (s *SettingsService) FallbackTemp(ctx context.Context) (float64, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load fallback temperature: %w", err)
	}
	return st.EcoTempC, nil
}
