// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/core/link"
	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/core/page"
	"github.com/taibuivan/comicvault/internal/core/publication"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
	"github.com/taibuivan/comicvault/internal/platform/journal"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/storage"
)

// # Fakes

// memorySubmissions is an in-memory submission store.
type memorySubmissions struct {
	submissions map[int64]*publication.Submission
	nextID      int64
	published   []int64
}

func newMemorySubmissions() *memorySubmissions {
	return &memorySubmissions{submissions: map[int64]*publication.Submission{}, nextID: 100}
}

func (repo *memorySubmissions) Create(_ context.Context, staged publication.Staged) (int64, error) {
	repo.nextID++
	submission := &publication.Submission{
		ID:              repo.nextID,
		ModeratorID:     staged.ModeratorID,
		Name:            staged.Name,
		ArtistID:        staged.ArtistID,
		Cat:             staged.Cat,
		Tag:             staged.Tag,
		State:           staged.State,
		NumberOfPages:   staged.NumberOfPages,
		HasThumbnail:    staged.HasThumbnail,
		PreviousComicID: staged.PreviousComic,
		NextComicID:     staged.NextComic,
		Keywords:        []publication.KeywordRef{},
	}
	for _, id := range staged.KeywordIDs {
		submission.Keywords = append(submission.Keywords, publication.KeywordRef{ID: id})
	}
	repo.submissions[submission.ID] = submission
	return submission.ID, nil
}

func (repo *memorySubmissions) List(context.Context) ([]*publication.Submission, error) {
	var out []*publication.Submission
	for _, submission := range repo.submissions {
		if !submission.Processed {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (repo *memorySubmissions) FindByName(_ context.Context, name string) (*publication.Submission, error) {
	for _, submission := range repo.submissions {
		if submission.Name == name && !submission.Processed {
			return submission, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *memorySubmissions) FindByID(_ context.Context, id int64) (*publication.Submission, error) {
	submission, ok := repo.submissions[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *submission
	return &copied, nil
}

func (repo *memorySubmissions) Approve(_ context.Context, id int64) (int64, error) {
	submission := repo.submissions[id]
	submission.Processed, submission.Approved = true, true
	comicID := int64(len(repo.published) + 1)
	repo.published = append(repo.published, comicID)
	return comicID, nil
}

func (repo *memorySubmissions) Reject(_ context.Context, id int64) error {
	repo.submissions[id].Processed = true
	return nil
}

func (repo *memorySubmissions) AddKeywords(_ context.Context, id int64, keywordIDs []int64) error {
	submission := repo.submissions[id]
	for _, keywordID := range keywordIDs {
		for _, existing := range submission.Keywords {
			if existing.ID == keywordID {
				return apperr.Conflict("Duplicate entry")
			}
		}
	}
	for _, keywordID := range keywordIDs {
		submission.Keywords = append(submission.Keywords, publication.KeywordRef{ID: keywordID})
	}
	return nil
}

func (repo *memorySubmissions) RemoveKeywords(_ context.Context, id int64, keywordIDs []int64) (int64, error) {
	submission := repo.submissions[id]
	kept := submission.Keywords[:0]
	var removed int64
	for _, keyword := range submission.Keywords {
		drop := false
		for _, keywordID := range keywordIDs {
			drop = drop || keyword.ID == keywordID
		}
		if drop {
			removed++
			continue
		}
		kept = append(kept, keyword)
	}
	submission.Keywords = kept
	return removed, nil
}

// edges records inserted links.
type edges struct{ inserted [][2]int64 }

func (e *edges) RedirectIncoming(context.Context, int64, int64) (int64, error) { return 0, nil }
func (e *edges) RedirectOutgoing(context.Context, int64, int64) (int64, error) { return 0, nil }
func (e *edges) Insert(_ context.Context, first, last int64) error {
	e.inserted = append(e.inserted, [2]int64{first, last})
	return nil
}
func (e *edges) DeleteIncoming(context.Context, int64) error { return nil }
func (e *edges) DeleteOutgoing(context.Context, int64) error { return nil }
func (e *edges) Neighbors(context.Context, int64) (*string, *string, error) {
	return nil, nil, nil
}

type actions []modlog.Action

func (a *actions) Record(_ context.Context, _ int64, action modlog.Action) {
	*a = append(*a, action)
}

type invalidations struct {
	count int
	err   error
}

func (i *invalidations) Invalidate(context.Context) error {
	i.count++
	return i.err
}

type fixture struct {
	service  *publication.Service
	repo     *memorySubmissions
	edges    *edges
	fs       afero.Fs
	recorded *actions
	cache    *invalidations
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := afero.NewMemMapFs()
	root, err := storage.NewFS(fs, "/comics")
	require.NoError(t, err)

	entries, err := journal.OpenInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = entries.Close() })

	repo := newMemorySubmissions()
	links := &edges{}
	recorded := &actions{}
	cache := &invalidations{}

	service := publication.NewService(repo, page.NewStore(root, entries, logger),
		link.NewMaintainer(links, logger), cache, recorded, logger)

	return fixture{service: service, repo: repo, edges: links, fs: fs, recorded: recorded, cache: cache}
}

var (
	moderator = &sec.Viewer{ID: 1, Username: "mod", Role: sec.RoleModerator}
	member    = &sec.Viewer{ID: 2, Username: "reader", Role: sec.RoleMember}
)

func draft(name string) publication.Draft {
	return publication.Draft{Name: name, Cat: "fan", Tag: "color", State: "wip", ArtistID: 3, KeywordIDs: []int64{5}}
}

func twoPages() []page.Upload {
	return []page.Upload{{Name: "b.png", Data: []byte("b")}, {Name: "a.jpg", Data: []byte("a")}}
}

// # Tests

/*
TestSubmit_WritesFilesThenRecord stores pages in the final directory and
the staged record with the stored count.
*/
func TestSubmit_WritesFilesThenRecord(t *testing.T) {
	f := newFixture(t)

	id, err := f.service.Submit(context.Background(), moderator, draft("  Dragon   Tales "), twoPages(), &page.Upload{Name: "t.jpg", Data: []byte("t")})
	require.NoError(t, err)

	submission := f.repo.submissions[id]
	require.NotNil(t, submission)
	assert.Equal(t, "Dragon Tales", submission.Name)
	assert.Equal(t, 2, submission.NumberOfPages)
	assert.True(t, submission.HasThumbnail)
	assert.Equal(t, moderator.ID, submission.ModeratorID)

	for _, name := range []string{"001.jpg", "002.png", page.ThumbnailName} {
		exists, _ := afero.Exists(f.fs, "/comics/Dragon Tales/"+name)
		assert.True(t, exists, name)
	}

	require.Len(t, *f.recorded, 1)
	assert.Equal(t, modlog.TypeCreateComic, (*f.recorded)[0].Type)
	assert.Equal(t, "Add Dragon Tales", (*f.recorded)[0].Description)
}

func TestSubmit_RejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name  string
		draft publication.Draft
		files []page.Upload
	}{
		{"single_page", draft("One"), []page.Upload{{Name: "a.jpg"}}},
		{"bad_state", publication.Draft{Name: "One", Cat: "fan", Tag: "x", State: "paused", ArtistID: 1}, twoPages()},
		{"no_artist", publication.Draft{Name: "One", Cat: "fan", Tag: "x", State: "wip"}, twoPages()},
		{"bad_name", draft("../One"), twoPages()},
		{"bad_extension", draft("One"), []page.Upload{{Name: "a.jpg"}, {Name: "b.tiff"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Submit(context.Background(), moderator, tt.draft, tt.files, nil)
			assert.True(t, apperr.IsValidation(err))
			assert.Empty(t, f.repo.submissions)

			exists, _ := afero.DirExists(f.fs, "/comics/One")
			assert.False(t, exists)
		})
	}
}

func TestSubmit_NameTaken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.MkdirAll("/comics/Dragon Tales", 0o755))

	_, err := f.service.Submit(context.Background(), moderator, draft("Dragon Tales"), twoPages(), nil)
	assert.True(t, apperr.IsConflict(err))
	assert.Empty(t, f.repo.submissions)
}

/*
TestProcess_ApprovalPreconditions refuses approval without a thumbnail or
without keywords and leaves the submission unprocessed.
*/
func TestProcess_ApprovalPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	noThumbnail, err := f.service.Submit(ctx, moderator, draft("No Thumb"), twoPages(), nil)
	require.NoError(t, err)

	_, err = f.service.Process(ctx, moderator, noThumbnail, true)
	assert.True(t, apperr.IsValidation(err))
	assert.False(t, f.repo.submissions[noThumbnail].Processed)

	bare := draft("No Keywords")
	bare.KeywordIDs = nil
	noKeywords, err := f.service.Submit(ctx, moderator, bare, twoPages(), &page.Upload{Name: "t.png"})
	require.NoError(t, err)

	_, err = f.service.Process(ctx, moderator, noKeywords, true)
	assert.True(t, apperr.IsValidation(err))
	assert.False(t, f.repo.submissions[noKeywords].Processed)

	assert.Empty(t, f.repo.published)
}

/*
TestProcess_Approve publishes once, links the proposed neighbors, and
refuses a second decision.
*/
func TestProcess_Approve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal := draft("Dragon Tales 2")
	previous := int64(40)
	proposal.PreviousComic = &previous

	id, err := f.service.Submit(ctx, moderator, proposal, twoPages(), &page.Upload{Name: "t.jpg"})
	require.NoError(t, err)

	comicID, err := f.service.Process(ctx, moderator, id, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), comicID)

	submission := f.repo.submissions[id]
	assert.True(t, submission.Processed)
	assert.True(t, submission.Approved)
	assert.Equal(t, [][2]int64{{40, comicID}}, f.edges.inserted)

	_, err = f.service.Process(ctx, moderator, id, false)
	require.True(t, apperr.IsConflict(err))
	assert.Equal(t, publication.MsgProcessed, err.Error())
	assert.Equal(t, "Approve Dragon Tales 2", (*f.recorded)[len(*f.recorded)-1].Description)
}

func TestProcess_Reject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.service.Submit(ctx, moderator, draft("Rejected"), twoPages(), nil)
	require.NoError(t, err)

	comicID, err := f.service.Process(ctx, moderator, id, false)
	require.NoError(t, err)
	assert.Zero(t, comicID)
	assert.True(t, f.repo.submissions[id].Processed)
	assert.False(t, f.repo.submissions[id].Approved)

	exists, _ := afero.Exists(f.fs, "/comics/Rejected/001.jpg")
	assert.True(t, exists)
	assert.Zero(t, f.cache.count)

	_, err = f.service.Process(ctx, moderator, 999, true)
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.service.Process(ctx, member, id, true)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestProcess_ApproveInvalidatesKeywordCache drops cached keyword counts once
the work is published. A cache failure does not undo the approval.
*/
func TestProcess_ApproveInvalidatesKeywordCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.service.Submit(ctx, moderator, draft("Cached"), twoPages(), &page.Upload{Name: "t.jpg"})
	require.NoError(t, err)
	assert.Zero(t, f.cache.count)

	f.cache.err = errors.New("redis down")
	comicID, err := f.service.Process(ctx, moderator, id, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), comicID)
	assert.Equal(t, 1, f.cache.count)
	assert.True(t, f.repo.submissions[id].Approved)
}

/*
TestKeywords_DuplicateConflict reports duplicates with their own message.
*/
func TestKeywords_DuplicateConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.service.Submit(ctx, moderator, draft("Tagged"), twoPages(), nil)
	require.NoError(t, err)

	require.NoError(t, f.service.AddKeywords(ctx, moderator, id, []int64{6, 7}))
	assert.Len(t, f.repo.submissions[id].Keywords, 3)

	err = f.service.AddKeywords(ctx, moderator, id, []int64{7, 8})
	require.True(t, apperr.IsConflict(err))
	assert.Equal(t, publication.MsgKeywordsExist, err.Error())

	require.NoError(t, f.service.RemoveKeywords(ctx, moderator, id, []int64{5, 6}))
	assert.Equal(t, []publication.KeywordRef{{ID: 7}}, f.repo.submissions[id].Keywords)
	assert.Equal(t, "Remove 2 keywords from Tagged", (*f.recorded)[len(*f.recorded)-1].Description)

	assert.True(t, apperr.IsValidation(f.service.AddKeywords(ctx, moderator, id, nil)))
}

func TestGetPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, moderator, draft("Visible"), twoPages(), nil)
	require.NoError(t, err)

	submission, err := f.service.GetPending(ctx, moderator, "Visible")
	require.NoError(t, err)
	assert.Equal(t, "Visible", submission.Name)

	_, err = f.service.GetPending(ctx, moderator, "Hidden")
	require.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Pending comic not found", err.Error())

	list, err := f.service.ListPending(ctx, moderator)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
