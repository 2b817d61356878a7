package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/earley/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_GrammarsRepository_CreateAndGet(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	repo := NewGrammarsRepository()
	owner := uuid.New()
	data := []byte{1, 2, 3}

	// execute
	created, err := repo.Create(ctx, dao.Grammar{OwnerID: owner, Name: "g", Data: data})

	// assert
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(uuid.Nil, created.ID)
	assert.False(created.Created.IsZero())

	// mutating the caller's slice must not affect the stored grammar
	data[0] = 99

	fetched, err := repo.GetByID(ctx, created.ID)
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3}, fetched.Data)
}

func Test_GrammarsRepository_GetAllByOwner(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	repo := NewGrammarsRepository()
	owner := uuid.New()
	other := uuid.New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := repo.Create(ctx, dao.Grammar{OwnerID: owner, Name: name})
		if !assert.NoError(err) {
			return
		}
	}
	_, err := repo.Create(ctx, dao.Grammar{OwnerID: other, Name: "theirs"})
	if !assert.NoError(err) {
		return
	}

	// execute
	owned, err := repo.GetAllByOwner(ctx, owner)
	none, noneErr := repo.GetAllByOwner(ctx, uuid.New())

	// assert
	assert.NoError(err)
	if assert.Len(owned, 3) {
		assert.Equal("alpha", owned[0].Name)
		assert.Equal("mid", owned[1].Name)
		assert.Equal("zeta", owned[2].Name)
	}
	assert.NoError(noneErr)
	assert.Empty(none)
}

func Test_GrammarsRepository_UpdateChangesOwner(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	repo := NewGrammarsRepository()
	oldOwner := uuid.New()
	newOwner := uuid.New()
	created, err := repo.Create(ctx, dao.Grammar{OwnerID: oldOwner, Name: "g"})
	if !assert.NoError(err) {
		return
	}

	// execute
	created.OwnerID = newOwner
	created.Name = "renamed"
	updated, err := repo.Update(ctx, created.ID, created)

	// assert
	assert.NoError(err)
	assert.Equal("renamed", updated.Name)

	oldOwned, _ := repo.GetAllByOwner(ctx, oldOwner)
	newOwned, _ := repo.GetAllByOwner(ctx, newOwner)
	assert.Empty(oldOwned)
	assert.Len(newOwned, 1)
}

func Test_GrammarsRepository_Missing(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	repo := NewGrammarsRepository()
	id := uuid.New()

	// execute
	_, getErr := repo.GetByID(ctx, id)
	_, updateErr := repo.Update(ctx, id, dao.Grammar{ID: id})
	_, deleteErr := repo.Delete(ctx, id)

	// assert
	assert.ErrorIs(getErr, dao.ErrNotFound)
	assert.ErrorIs(updateErr, dao.ErrNotFound)
	assert.ErrorIs(deleteErr, dao.ErrNotFound)
}

func Test_UsersRepository_UniqueUsername(t *testing.T) {
	testCases := []struct {
		name      string
		first     string
		second    string
		expectErr error
	}{
		{name: "distinct names", first: "ada", second: "grace"},
		{name: "same name", first: "ada", second: "ada", expectErr: dao.ErrConstraintViolation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			ctx := context.Background()
			repo := NewUsersRepository()
			_, err := repo.Create(ctx, dao.User{Username: tc.first})
			if !assert.NoError(err) {
				return
			}

			// execute
			_, err = repo.Create(ctx, dao.User{Username: tc.second})

			// assert
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_UsersRepository_RenameFreesOldName(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	repo := NewUsersRepository()
	user, err := repo.Create(ctx, dao.User{Username: "ada"})
	if !assert.NoError(err) {
		return
	}

	// execute
	user.Username = "lovelace"
	_, err = repo.Update(ctx, user.ID, user)

	// assert
	assert.NoError(err)
	_, err = repo.GetByUsername(ctx, "ada")
	assert.ErrorIs(err, dao.ErrNotFound)
	renamed, err := repo.GetByUsername(ctx, "lovelace")
	assert.NoError(err)
	assert.Equal(user.ID, renamed.ID)
}
