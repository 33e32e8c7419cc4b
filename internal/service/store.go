package service

import (
	"context"

	"game_dashboard/internal/repository"
)

type repositoryStore struct {
	*repository.Repository
}

func NewStore(repo *repository.Repository) Store {
	return &repositoryStore{Repository: repo}
}

func (s *repositoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return s.Transaction(ctx, func(tx *repository.Repository) error {
		return fn(&repositoryStore{Repository: tx})
	})
}
