// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package keyword_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/core/keyword"
	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

// # Fakes

type memoryKeywords struct {
	keywords    []*keyword.Keyword
	memberships map[int64]map[int64]bool
	comics      map[int64]string
	listCalls   int
}

func newMemoryKeywords() *memoryKeywords {
	return &memoryKeywords{
		keywords: []*keyword.Keyword{
			{ID: 1, Name: "fantasy"},
			{ID: 2, Name: "mystery"},
		},
		memberships: map[int64]map[int64]bool{7: {1: true}},
		comics:      map[int64]string{7: "Dragon Tales"},
	}
}

func (repo *memoryKeywords) List(context.Context) ([]*keyword.Keyword, error) {
	repo.listCalls++
	out := make([]*keyword.Keyword, 0, len(repo.keywords))
	for _, kw := range repo.keywords {
		count := 0
		for _, members := range repo.memberships {
			if members[kw.ID] {
				count++
			}
		}
		out = append(out, &keyword.Keyword{ID: kw.ID, Name: kw.Name, Count: count})
	}
	return out, nil
}

func (repo *memoryKeywords) Create(_ context.Context, name string) (*keyword.Keyword, error) {
	for _, kw := range repo.keywords {
		if kw.Name == name {
			return nil, apperr.Conflict("Keyword already exists")
		}
	}
	kw := &keyword.Keyword{ID: int64(len(repo.keywords) + 1), Name: name}
	repo.keywords = append(repo.keywords, kw)
	return kw, nil
}

func (repo *memoryKeywords) ComicName(_ context.Context, comicID int64) (string, error) {
	name, found := repo.comics[comicID]
	if !found {
		return "", dberr.ErrNotFound
	}
	return name, nil
}

func (repo *memoryKeywords) AddToComic(_ context.Context, comicID int64, keywordIDs []int64) error {
	members := repo.memberships[comicID]
	if members == nil {
		members = map[int64]bool{}
		repo.memberships[comicID] = members
	}
	for _, id := range keywordIDs {
		if members[id] {
			return apperr.Conflict("Resource already exists")
		}
	}
	for _, id := range keywordIDs {
		members[id] = true
	}
	return nil
}

func (repo *memoryKeywords) RemoveFromComic(_ context.Context, comicID int64, keywordIDs []int64) (int64, error) {
	var removed int64
	for _, id := range keywordIDs {
		if repo.memberships[comicID][id] {
			delete(repo.memberships[comicID], id)
			removed++
		}
	}
	return removed, nil
}

type memoryCache struct {
	keywords    []*keyword.Keyword
	warm        bool
	failReads   bool
	invalidated int
}

func (cache *memoryCache) Get(context.Context) ([]*keyword.Keyword, bool, error) {
	if cache.failReads {
		return nil, false, errors.New("connection refused")
	}
	return cache.keywords, cache.warm, nil
}

func (cache *memoryCache) Set(_ context.Context, keywords []*keyword.Keyword) error {
	cache.keywords, cache.warm = keywords, true
	return nil
}

func (cache *memoryCache) Invalidate(context.Context) error {
	cache.keywords, cache.warm = nil, false
	cache.invalidated++
	return nil
}

type actions []modlog.Action

func (a *actions) Record(_ context.Context, _ int64, action modlog.Action) {
	*a = append(*a, action)
}

var moderator = &sec.Viewer{ID: 3, Username: "mod", Role: sec.RoleModerator}

func newService() (*keyword.Service, *memoryKeywords, *memoryCache, *actions) {
	repo := newMemoryKeywords()
	cache := &memoryCache{}
	recorded := &actions{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return keyword.NewService(repo, cache, recorded, logger), repo, cache, recorded
}

// # Tests

/*
TestList_CacheAside verifies a cold list fills the cache and a warm one
skips the database.
*/
func TestList_CacheAside(t *testing.T) {
	service, repo, cache, _ := newService()
	ctx := context.Background()

	first, err := service.List(ctx)
	require.NoError(t, err)
	assert.True(t, cache.warm)
	assert.Equal(t, 1, first[0].Count)

	_, err = service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestList_CacheFailureFallsBack(t *testing.T) {
	service, repo, cache, _ := newService()
	cache.failReads = true

	keywords, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, keywords, 2)
	assert.Equal(t, 1, repo.listCalls)
}

/*
TestAddToComic_InvalidatesCache verifies membership writes drop the cached
counts so the next list reflects them.
*/
func TestAddToComic_InvalidatesCache(t *testing.T) {
	service, _, cache, recorded := newService()
	ctx := context.Background()

	_, err := service.List(ctx)
	require.NoError(t, err)

	require.NoError(t, service.AddToComic(ctx, moderator, 7, []int64{2}))
	assert.False(t, cache.warm)
	assert.Equal(t, 1, cache.invalidated)

	keywords, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, keywords[1].Count)

	require.Len(t, *recorded, 1)
	assert.Equal(t, modlog.TypeKeyword, (*recorded)[0].Type)
	assert.Equal(t, "Add 1 keywords to Dragon Tales", (*recorded)[0].Description)
	assert.Equal(t, "2", (*recorded)[0].Details)
}

func TestAddToComic_DuplicateConflict(t *testing.T) {
	service, repo, _, recorded := newService()

	err := service.AddToComic(context.Background(), moderator, 7, []int64{2, 1})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, keyword.MsgMembershipExists, err.Error())
	assert.False(t, repo.memberships[7][2])
	assert.Empty(t, *recorded)
}

func TestRemoveFromComic(t *testing.T) {
	service, repo, _, recorded := newService()

	require.NoError(t, service.RemoveFromComic(context.Background(), moderator, 7, []int64{1, 2}))
	assert.Empty(t, repo.memberships[7])
	assert.Equal(t, "Remove 1 keywords from Dragon Tales", (*recorded)[0].Description)
}

func TestCreate(t *testing.T) {
	service, _, cache, recorded := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, moderator, "  horror ")
	require.NoError(t, err)
	assert.Equal(t, "horror", created.Name)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, "Add horror", (*recorded)[0].Description)

	_, err = service.Create(ctx, moderator, "horror")
	assert.True(t, apperr.IsConflict(err))

	_, err = service.Create(ctx, moderator, " ")
	assert.True(t, apperr.IsValidation(err))
}

func TestGuards(t *testing.T) {
	service, _, _, _ := newService()
	ctx := context.Background()
	member := &sec.Viewer{ID: 5, Role: sec.RoleMember}

	tests := []struct {
		name  string
		check func(error) bool
		err   error
	}{
		{"anonymous_create", func(err error) bool { return apperr.HasCode(err, "UNAUTHORIZED") },
			func() error { _, err := service.Create(ctx, nil, "x"); return err }()},
		{"member_add", func(err error) bool { return apperr.HasCode(err, "FORBIDDEN") },
			service.AddToComic(ctx, member, 7, []int64{2})},
		{"empty_ids", apperr.IsValidation, service.AddToComic(ctx, moderator, 7, nil)},
		{"unknown_comic", apperr.IsNotFound, service.RemoveFromComic(ctx, moderator, 99, []int64{1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, tt.check(tt.err), tt.err.Error())
		})
	}
}
