package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/earley/internal/util"
	"github.com/dekarrin/earley/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars:       make(map[uuid.UUID]dao.Grammar),
		byOwnerIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryGrammarsRepository struct {
	mtx            sync.RWMutex
	grammars       map[uuid.UUID]dao.Grammar
	byOwnerIDIndex map[uuid.UUID][]uuid.UUID
}

func (imgr *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (imgr *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()

	g.ID = newUUID
	g.Created = now
	g.Modified = now
	g.Data = copyBytes(g.Data)

	imgr.grammars[g.ID] = g

	ownerGrammars := imgr.byOwnerIDIndex[g.OwnerID]
	ownerGrammars = append(ownerGrammars, g.ID)
	imgr.byOwnerIDIndex[g.OwnerID] = ownerGrammars

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetAllByOwner(ctx context.Context, id uuid.UUID) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	byOwner := imgr.byOwnerIDIndex[id]

	all := make([]dao.Grammar, len(byOwner))
	for i := range byOwner {
		all[i] = imgr.grammars[byOwner[i]]
	}

	all = util.SortBy(all, func(l, r dao.Grammar) bool {
		if l.Name != r.Name {
			return l.Name < r.Name
		}
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imgr *InMemoryGrammarsRepository) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	existing, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	// check for conflicts on this table only
	// (inmem does not support enforcement of foreign keys)
	if g.ID != id {
		if _, ok := imgr.grammars[g.ID]; ok {
			return dao.Grammar{}, dao.ErrConstraintViolation
		}
	}

	g.Created = existing.Created
	g.Modified = time.Now()
	g.Data = copyBytes(g.Data)

	delete(imgr.grammars, id)
	imgr.grammars[g.ID] = g

	// the owner index is rebuilt for the old owner and the new one, which may
	// be the same
	byOldOwner := util.SliceRemove(id, imgr.byOwnerIDIndex[existing.OwnerID])
	if len(byOldOwner) < 1 {
		delete(imgr.byOwnerIDIndex, existing.OwnerID)
	} else {
		imgr.byOwnerIDIndex[existing.OwnerID] = byOldOwner
	}
	imgr.byOwnerIDIndex[g.OwnerID] = append(imgr.byOwnerIDIndex[g.OwnerID], g.ID)

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	byOwner := util.SliceRemove(g.ID, imgr.byOwnerIDIndex[g.OwnerID])
	if len(byOwner) < 1 {
		delete(imgr.byOwnerIDIndex, g.OwnerID)
	} else {
		imgr.byOwnerIDIndex[g.OwnerID] = byOwner
	}
	delete(imgr.grammars, g.ID)

	return g, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
