package services

import (
	"context"

	"github.com/brainring/rating-system/repositories"
)

// ResultObserver получает уведомления об изменениях результатов и
// приводит производные поля (total_points, place, achievements) в
// актуальное состояние. Регистрируется один раз при старте процесса
// и вызывается ResultService синхронно, в той же транзакции, что и
// само изменение: никаких сигналов времени выполнения и отложенных
// задач.
type ResultObserver interface {
	// TopicResultChanged — создан/изменён/удалён результат по теме.
	TopicResultChanged(ctx context.Context, exec repositories.SQLExecutor, gameResultID int) error
	// GameResultChanged — создан или изменён результат игры.
	GameResultChanged(ctx context.Context, exec repositories.SQLExecutor, gameResultID int) error
	// GameResultDeleted — результат игры удалён, пересчитываются
	// только места и достижения оставшихся команд.
	GameResultDeleted(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error
}
