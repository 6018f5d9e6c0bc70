package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chitchat/internal/domain"
	"chitchat/internal/service"
)

func directoryFixture() *MockUserRepo {
	repo := new(MockUserRepo)
	repo.On("List", mock.Anything).Return([]*domain.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
		{ID: "u3", Name: "Bobby", Email: "bobby@example.com"},
	}, nil)
	return repo
}

func TestDirectoryExcludesActor(t *testing.T) {
	dir := service.NewDirectory(directoryFixture())

	profiles, err := dir.List(context.Background(), "u1", "")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	for _, p := range profiles {
		assert.NotEqual(t, "u1", p.ID)
	}
}

func TestDirectoryNameFilter(t *testing.T) {
	dir := service.NewDirectory(directoryFixture())

	profiles, err := dir.List(context.Background(), "u1", "bob")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Bob", profiles[0].Name)
	assert.Equal(t, "Bobby", profiles[1].Name)

	profiles, err = dir.List(context.Background(), "u1", "BOBB")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Bobby", profiles[0].Name)
}

func TestDirectoryGet(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByID", mock.Anything, "u2").Return(&domain.User{ID: "u2", Name: "Bob"}, nil)
	repo.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

	dir := service.NewDirectory(repo)

	p, err := dir.Get(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.Name)

	_, err = dir.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
