package question

import "context"

type TemplateRepository interface {
	CreateTemplate(ctx context.Context, t Template) error
	GetTemplate(ctx context.Context, templateID string) (Template, bool, error)
	ListTemplates(ctx context.Context) ([]Template, error)
}

type Repository interface {
	Create(ctx context.Context, q LeagueQuestion) error
	// CreateBatch writes all questions or none.
	CreateBatch(ctx context.Context, qs []LeagueQuestion) error
	GetByID(ctx context.Context, questionID string) (LeagueQuestion, bool, error)
	// ListByEpisode orders by sort order, then creation.
	ListByEpisode(ctx context.Context, leagueSeasonID string, episode int) ([]LeagueQuestion, error)
	MaxSortOrder(ctx context.Context, leagueSeasonID string, episode int) (int, error)
}
