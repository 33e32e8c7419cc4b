package service

import (
	"context"
	"errors"
	"strings"

	"game_dashboard/internal/model"
	"game_dashboard/internal/repository"
)

type CharacterService struct {
	store    Store
	notifier Notifier
}

func NewCharacterService(store Store, notifier Notifier) *CharacterService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CharacterService{store: store, notifier: notifier}
}

func (s *CharacterService) CreateCharacter(ctx context.Context, c *model.Character) (*model.Character, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.store.GetGame(ctx, c.GameID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	if err := s.store.CreateCharacter(ctx, c); err != nil {
		return nil, err
	}
	s.notifier.Notify(c.GameID, ChangeCharacters)
	return c, nil
}

func (s *CharacterService) ListCharacters(ctx context.Context, gameID int64) ([]*model.Character, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return s.store.ListCharacters(ctx, gameID)
}

// UpdateCharacter applies only the fields set in patch.
func (s *CharacterService) UpdateCharacter(ctx context.Context, characterID int64, patch model.CharacterPatch) (*model.Character, error) {
	var c *model.Character
	err := s.store.WithinTx(ctx, func(store Store) error {
		var err error
		c, err = store.GetCharacter(ctx, characterID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCharacterNotFound
			}
			return err
		}

		if patch.Level != nil {
			c.Level = patch.Level
		}
		if patch.Grade != nil {
			c.Grade = patch.Grade
		}
		if patch.Overpower != nil {
			c.Overpower = patch.Overpower
		}
		if patch.IsHave != nil {
			c.IsHave = *patch.IsHave
		}
		return store.UpdateCharacter(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(c.GameID, ChangeCharacters)
	return c, nil
}
