package services

import (
	"context"
	"errors"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/repositories"
)

// Справочники: города, серии, темы. Сервисы тонкие, вся работа
// сводится к валидации имени и маппингу ошибок репозитория.

type CityService interface {
	Create(ctx context.Context, name string) (*models.City, error)
	List(ctx context.Context) ([]models.City, error)
	Update(ctx context.Context, id int, name string) (*models.City, error)
	Delete(ctx context.Context, id int) error
}

type cityService struct {
	cityRepo repositories.CityRepository
}

func NewCityService(cityRepo repositories.CityRepository) CityService {
	return &cityService{cityRepo: cityRepo}
}

func (s *cityService) Create(ctx context.Context, name string) (*models.City, error) {
	if name == "" {
		return nil, ErrCityNameRequired
	}
	city := &models.City{Name: name}
	if err := s.cityRepo.Create(ctx, city); err != nil {
		return nil, mapCityError(err)
	}
	return city, nil
}

func (s *cityService) List(ctx context.Context) ([]models.City, error) {
	return s.cityRepo.List(ctx)
}

func (s *cityService) Update(ctx context.Context, id int, name string) (*models.City, error) {
	if name == "" {
		return nil, ErrCityNameRequired
	}
	city, err := s.cityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCityError(err)
	}
	city.Name = name
	if err := s.cityRepo.Update(ctx, city); err != nil {
		return nil, mapCityError(err)
	}
	return city, nil
}

func (s *cityService) Delete(ctx context.Context, id int) error {
	if err := s.cityRepo.Delete(ctx, id); err != nil {
		return mapCityError(err)
	}
	return nil
}

func mapCityError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCityNotFound):
		return ErrCityNotFound
	case errors.Is(err, repositories.ErrCityNameConflict):
		return ErrCityNameConflict
	case errors.Is(err, repositories.ErrCityInUse):
		return ErrCityInUse
	default:
		return err
	}
}

type SeriesInput struct {
	Name           string                `json:"name"`
	DisplayOrder   int                   `json:"display_order"`
	TournamentType models.TournamentType `json:"tournament_type"`
}

type SeriesService interface {
	Create(ctx context.Context, input SeriesInput) (*models.TournamentSeries, error)
	List(ctx context.Context) ([]models.TournamentSeries, error)
	Update(ctx context.Context, id int, input SeriesInput) (*models.TournamentSeries, error)
	Delete(ctx context.Context, id int) error
}

type seriesService struct {
	seriesRepo repositories.SeriesRepository
}

func NewSeriesService(seriesRepo repositories.SeriesRepository) SeriesService {
	return &seriesService{seriesRepo: seriesRepo}
}

func (s *seriesService) Create(ctx context.Context, input SeriesInput) (*models.TournamentSeries, error) {
	if input.Name == "" {
		return nil, ErrSeriesNameRequired
	}
	series := &models.TournamentSeries{
		Name:           input.Name,
		DisplayOrder:   input.DisplayOrder,
		TournamentType: normalizeTournamentType(input.TournamentType),
	}
	if err := s.seriesRepo.Create(ctx, series); err != nil {
		return nil, mapSeriesError(err)
	}
	return series, nil
}

func (s *seriesService) List(ctx context.Context) ([]models.TournamentSeries, error) {
	return s.seriesRepo.List(ctx)
}

func (s *seriesService) Update(ctx context.Context, id int, input SeriesInput) (*models.TournamentSeries, error) {
	if input.Name == "" {
		return nil, ErrSeriesNameRequired
	}
	series, err := s.seriesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapSeriesError(err)
	}
	series.Name = input.Name
	series.DisplayOrder = input.DisplayOrder
	series.TournamentType = normalizeTournamentType(input.TournamentType)
	if err := s.seriesRepo.Update(ctx, series); err != nil {
		return nil, mapSeriesError(err)
	}
	return series, nil
}

func (s *seriesService) Delete(ctx context.Context, id int) error {
	if err := s.seriesRepo.Delete(ctx, id); err != nil {
		return mapSeriesError(err)
	}
	return nil
}

func normalizeTournamentType(t models.TournamentType) models.TournamentType {
	if t == models.TypeCup {
		return models.TypeCup
	}
	return models.TypeRegular
}

func mapSeriesError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrSeriesNotFound):
		return ErrSeriesNotFound
	case errors.Is(err, repositories.ErrSeriesNameConflict):
		return ErrSeriesNameConflict
	case errors.Is(err, repositories.ErrSeriesInUse):
		return ErrSeriesInUse
	default:
		return err
	}
}

type TopicInput struct {
	FullName  string `json:"full_name"`
	ShortName string `json:"short_name"`
}

type TopicService interface {
	Create(ctx context.Context, input TopicInput) (*models.Topic, error)
	List(ctx context.Context) ([]models.Topic, error)
	Update(ctx context.Context, id int, input TopicInput) (*models.Topic, error)
	Delete(ctx context.Context, id int) error
}

type topicService struct {
	topicRepo repositories.TopicRepository
}

func NewTopicService(topicRepo repositories.TopicRepository) TopicService {
	return &topicService{topicRepo: topicRepo}
}

func (s *topicService) Create(ctx context.Context, input TopicInput) (*models.Topic, error) {
	if input.FullName == "" || input.ShortName == "" {
		return nil, ErrTopicNamesRequired
	}
	topic := &models.Topic{FullName: input.FullName, ShortName: input.ShortName}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, mapTopicError(err)
	}
	return topic, nil
}

func (s *topicService) List(ctx context.Context) ([]models.Topic, error) {
	return s.topicRepo.List(ctx)
}

func (s *topicService) Update(ctx context.Context, id int, input TopicInput) (*models.Topic, error) {
	if input.FullName == "" || input.ShortName == "" {
		return nil, ErrTopicNamesRequired
	}
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTopicError(err)
	}
	topic.FullName = input.FullName
	topic.ShortName = input.ShortName
	if err := s.topicRepo.Update(ctx, topic); err != nil {
		return nil, mapTopicError(err)
	}
	return topic, nil
}

func (s *topicService) Delete(ctx context.Context, id int) error {
	if err := s.topicRepo.Delete(ctx, id); err != nil {
		return mapTopicError(err)
	}
	return nil
}

func mapTopicError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTopicNotFound):
		return ErrTopicNotFound
	case errors.Is(err, repositories.ErrTopicInUse):
		return ErrTopicInUse
	default:
		return err
	}
}
