package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/repositories"
	"github.com/brainring/rating-system/storage"
)

type TeamService interface {
	Create(ctx context.Context, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	Update(ctx context.Context, id int, input TeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)
}

type TeamInput struct {
	Name   string `json:"name"`
	CityID int    `json:"city_id"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader) TeamService {
	return &teamService{teamRepo: teamRepo, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, input TeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	t := &models.Team{Name: input.Name, CityID: input.CityID}
	if err := s.teamRepo.Create(ctx, t); err != nil {
		return nil, mapTeamError(err)
	}
	return t, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	t, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamError(err)
	}
	s.fillLogoURL(t)
	return t, nil
}

func (s *teamService) Update(ctx context.Context, id int, input TeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	t, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamError(err)
	}
	t.Name = input.Name
	t.CityID = input.CityID
	if err := s.teamRepo.Update(ctx, t); err != nil {
		return nil, mapTeamError(err)
	}
	s.fillLogoURL(t)
	return t, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	t, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return mapTeamError(err)
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return mapTeamError(err)
	}
	// Файл в хранилище подчищаем после удаления записи; ошибка
	// удаления файла не откатывает удаление команды.
	if s.uploader != nil && t.LogoKey != nil {
		_ = s.uploader.Delete(ctx, *t.LogoKey)
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrUploaderNotConfigured
	}
	t, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapTeamError(err)
	}

	key := fmt.Sprintf("teams/%d/logo", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return nil, mapTeamError(err)
	}
	t.LogoKey = &result.Key
	s.fillLogoURL(t)
	return t, nil
}

func (s *teamService) fillLogoURL(t *models.Team) {
	if s.uploader == nil || t.LogoKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	t.LogoURL = &url
}

func mapTeamError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamInvalidCity):
		return ErrCityNotFound
	case errors.Is(err, repositories.ErrTeamInUse):
		return ErrTeamInUse
	default:
		return err
	}
}
