package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrCityNameRequired       = errors.New("city name is required")
	ErrSeriesNameRequired     = errors.New("series name is required")
	ErrTopicNamesRequired     = errors.New("topic full and short names are required")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentDateRequired = errors.New("tournament date is required")
	ErrTopicNotInTournament   = errors.New("topic is not assigned to the game's tournament")
	ErrTournamentTopicsLocked = errors.New("tournament topics cannot change once results exist")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Ошибки конфликтов
	ErrCityNameConflict    = errors.New("city name is already in use")
	ErrSeriesNameConflict  = errors.New("series name is already in use")
	ErrTeamNameConflict    = errors.New("team name is already in use")
	ErrGameResultConflict  = errors.New("team already has a result in this tournament")
	ErrTopicResultConflict = errors.New("topic already has a result in this game")
	ErrUserEmailConflict   = errors.New("email address is already in use")

	// Используемые сущности нельзя удалять
	ErrCityInUse       = errors.New("city cannot be deleted as it is currently in use")
	ErrSeriesInUse     = errors.New("series cannot be deleted as it is currently in use")
	ErrTopicInUse      = errors.New("topic cannot be deleted as it is currently in use")
	ErrTeamInUse       = errors.New("team cannot be deleted as it has game results")
	ErrTournamentInUse = errors.New("tournament cannot be deleted as it has game results")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")

	// Ошибки, специфичные для сущностей
	ErrCityNotFound        = errors.New("city not found")
	ErrSeriesNotFound      = errors.New("tournament series not found")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrGameResultNotFound  = errors.New("game result not found")
	ErrTopicResultNotFound = errors.New("topic result not found")
	ErrUserNotFound        = errors.New("user not found")

	// Загрузка логотипов
	ErrUploaderNotConfigured = errors.New("file storage is not configured")
)
