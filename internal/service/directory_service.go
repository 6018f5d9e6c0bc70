package service

import (
	"context"
	"strings"

	"chitchat/internal/domain"
)

// Directory lists the users an actor can start a conversation with. The
// acting identifier is always passed explicitly; nothing here reads ambient
// session state.
type Directory struct {
	users domain.UserRepository
}

func NewDirectory(users domain.UserRepository) *Directory {
	return &Directory{users: users}
}

// List returns all profiles except the actor's own, optionally filtered by a
// case-insensitive name substring.
func (d *Directory) List(ctx context.Context, actorID, query string) ([]*domain.Profile, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	profiles := make([]*domain.Profile, 0, len(users))
	for _, u := range users {
		if u.ID == actorID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(u.Name), query) {
			continue
		}
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// Get returns one profile by participant identifier.
func (d *Directory) Get(ctx context.Context, id string) (*domain.Profile, error) {
	u, err := d.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u.Profile(), nil
}
