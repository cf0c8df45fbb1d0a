// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/core/page"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/journal"
	"github.com/taibuivan/comicvault/internal/platform/storage"
)

// # Harness

// recordingFs logs every rename and can fail the n-th one or every removal.
type recordingFs struct {
	afero.Fs
	renames      []string
	failRenameAt int
	failRemove   bool
}

func (fs *recordingFs) Remove(name string) error {
	if fs.failRemove {
		return errors.New("read-only file system")
	}
	return fs.Fs.Remove(name)
}

func (fs *recordingFs) Rename(oldname, newname string) error {
	fs.renames = append(fs.renames, path.Base(oldname)+"->"+path.Base(newname))
	if fs.failRenameAt == len(fs.renames) {
		return errors.New("device unplugged")
	}
	return fs.Fs.Rename(oldname, newname)
}

type harness struct {
	store   *page.Store
	fs      *recordingFs
	journal *journal.Journal
}

const work = "Dragon Tales"

func newHarness(t *testing.T, pages int) harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := &recordingFs{Fs: afero.NewMemMapFs()}

	for i := 1; i <= pages; i++ {
		name := fmt.Sprintf("/comics/%s/%s", work, page.FileName(i, "jpg"))
		require.NoError(t, afero.WriteFile(fs.Fs, name, []byte(fmt.Sprintf("p%d", i)), 0o644))
	}
	require.NoError(t, fs.Fs.MkdirAll("/comics/"+work, 0o755))

	root, err := storage.NewFS(fs, "/comics")
	require.NoError(t, err)

	entries, err := journal.OpenInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = entries.Close() })

	return harness{store: page.NewStore(root, entries, logger), fs: fs, journal: entries}
}

// contents returns "name=data" for every page in sequence order.
func (h harness) contents(t *testing.T) []string {
	t.Helper()

	pages, err := h.store.Sequence(context.Background(), work)
	require.NoError(t, err)

	out := make([]string, 0, len(pages))
	for _, p := range pages {
		data, err := afero.ReadFile(h.fs.Fs, "/comics/"+work+"/"+p.Name)
		require.NoError(t, err)
		out = append(out, p.Name+"="+string(data))
	}
	return out
}

// # Tests

/*
TestInsertAfter_ShiftsDescending inserts after page 3 of 5: pages 5 then 4
move up before the new page lands at index 4.
*/
func TestInsertAfter_ShiftsDescending(t *testing.T) {
	h := newHarness(t, 5)

	count, err := h.store.InsertAfter(context.Background(), work, 3, page.Upload{Name: "f.png", Data: []byte("new")})
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	assert.Equal(t, []string{"005.jpg->006.jpg", "004.jpg->005.jpg"}, h.fs.renames)
	assert.Equal(t, []string{
		"001.jpg=p1", "002.jpg=p2", "003.jpg=p3", "004.png=new", "005.jpg=p4", "006.jpg=p5",
	}, h.contents(t))

	pending, err := h.journal.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestInsertAfter_Edges(t *testing.T) {
	h := newHarness(t, 2)

	count, err := h.store.InsertAfter(context.Background(), work, 0, page.Upload{Name: "cover.jpg", Data: []byte("c")})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = h.store.InsertAfter(context.Background(), work, 3, page.Upload{Name: "end.gif", Data: []byte("e")})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	assert.Equal(t, []string{"001.jpg=c", "002.jpg=p1", "003.jpg=p2", "004.gif=e"}, h.contents(t))

	_, err = h.store.InsertAfter(context.Background(), work, 5, page.Upload{Name: "x.jpg"})
	assert.True(t, apperr.IsValidation(err))
	_, err = h.store.InsertAfter(context.Background(), work, -1, page.Upload{Name: "x.jpg"})
	assert.True(t, apperr.IsValidation(err))
}

/*
TestDelete_ThenInsertIsNoop deletes page 2 and reinserts the same content
after page 1.
*/
func TestDelete_ThenInsertIsNoop(t *testing.T) {
	h := newHarness(t, 4)
	before := h.contents(t)

	count, err := h.store.Delete(context.Background(), work, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"003.jpg->002.jpg", "004.jpg->003.jpg"}, h.fs.renames)

	count, err = h.store.InsertAfter(context.Background(), work, 1, page.Upload{Name: "again.jpg", Data: []byte("p2")})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	assert.Equal(t, before, h.contents(t))
}

func TestDelete_LastAndRange(t *testing.T) {
	h := newHarness(t, 3)

	count, err := h.store.Delete(context.Background(), work, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, h.fs.renames)

	_, err = h.store.Delete(context.Background(), work, 0)
	assert.True(t, apperr.IsValidation(err))
	_, err = h.store.Delete(context.Background(), work, 3)
	assert.True(t, apperr.IsValidation(err))
}

/*
TestSwap_TwiceRestores exchanges two pages and then exchanges them back.
*/
func TestSwap_TwiceRestores(t *testing.T) {
	h := newHarness(t, 4)
	before := h.contents(t)

	count, err := h.store.Swap(context.Background(), work, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, []string{"001.jpg=p1", "002.jpg=p4", "003.jpg=p3", "004.jpg=p2"}, h.contents(t))

	_, err = h.store.Swap(context.Background(), work, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, before, h.contents(t))

	_, err = h.store.Swap(context.Background(), work, 2, 2)
	assert.True(t, apperr.IsValidation(err))
	_, err = h.store.Swap(context.Background(), work, 1, 9)
	assert.True(t, apperr.IsValidation(err))
}

func TestSwap_KeepsExtensions(t *testing.T) {
	h := newHarness(t, 1)
	_, err := h.store.Append(context.Background(), work, []page.Upload{{Name: "b.png", Data: []byte("png")}})
	require.NoError(t, err)

	_, err = h.store.Swap(context.Background(), work, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"001.png=png", "002.jpg=p1"}, h.contents(t))
}

/*
TestAppend_OrdersByUploadName numbers a batch by name, not arrival order.
*/
func TestAppend_OrdersByUploadName(t *testing.T) {
	h := newHarness(t, 2)

	count, err := h.store.Append(context.Background(), work, []page.Upload{
		{Name: "b.png", Data: []byte("b")},
		{Name: "a.jpeg", Data: []byte("a")},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, []string{"001.jpg=p1", "002.jpg=p2", "003.jpg=a", "004.png=b"}, h.contents(t))
}

/*
TestAppend_RejectsBeforeWriting leaves the directory untouched when any
upload has an unsupported extension.
*/
func TestAppend_RejectsBeforeWriting(t *testing.T) {
	h := newHarness(t, 1)

	_, err := h.store.Append(context.Background(), work, []page.Upload{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.bmp", Data: []byte("b")},
	})
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, []string{"001.jpg=p1"}, h.contents(t))

	_, err = h.store.Append(context.Background(), work, nil)
	assert.True(t, apperr.IsValidation(err))
}

/*
TestInsertAfter_FailureLeavesJournal stops at the failing rename, keeps the
completed ones, and leaves the plan in the journal.
*/
func TestInsertAfter_FailureLeavesJournal(t *testing.T) {
	h := newHarness(t, 5)
	h.fs.failRenameAt = 2

	_, err := h.store.InsertAfter(context.Background(), work, 3, page.Upload{Name: "f.png", Data: []byte("new")})
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)

	assert.Equal(t, []string{"001.jpg=p1", "002.jpg=p2", "003.jpg=p3", "004.jpg=p4", "006.jpg=p5"}, h.contents(t))

	pending, err := h.journal.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, work, pending[0].Work)
	assert.Equal(t, "insert", pending[0].Operation)
	assert.Equal(t, []journal.Rename{{From: "005.jpg", To: "006.jpg"}, {From: "004.jpg", To: "005.jpg"}}, pending[0].Renames)
}

/*
TestDelete_RemoveFailureClosesJournal leaves the sequence untouched and no
pending plan when the page file cannot be removed.
*/
func TestDelete_RemoveFailureClosesJournal(t *testing.T) {
	h := newHarness(t, 3)
	h.fs.failRemove = true

	_, err := h.store.Delete(context.Background(), work, 1)
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)

	assert.Empty(t, h.fs.renames)
	assert.Equal(t, []string{"001.jpg=p1", "002.jpg=p2", "003.jpg=p3"}, h.contents(t))

	pending, err := h.journal.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSequence_MissingDirectory(t *testing.T) {
	h := newHarness(t, 0)

	_, err := h.store.Sequence(context.Background(), "Nowhere")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestThumbnail replaces the thumbnail and keeps it out of the sequence.
*/
func TestThumbnail(t *testing.T) {
	h := newHarness(t, 2)

	has, err := h.store.HasThumbnail(context.Background(), work)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, h.store.PutThumbnail(context.Background(), work, page.Upload{Name: "t.png", Data: []byte("one")}))
	require.NoError(t, h.store.PutThumbnail(context.Background(), work, page.Upload{Name: "t.jpg", Data: []byte("two")}))

	data, err := afero.ReadFile(h.fs.Fs, "/comics/"+work+"/"+page.ThumbnailName)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	count, err := h.store.Count(context.Background(), work)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	err = h.store.PutThumbnail(context.Background(), work, page.Upload{Name: "t.gif"})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateWork(t *testing.T) {
	h := newHarness(t, 0)

	count, err := h.store.CreateWork(context.Background(), "Fresh", []page.Upload{
		{Name: "02.jpg", Data: []byte("b")},
		{Name: "01.jpg", Data: []byte("a")},
	}, &page.Upload{Name: "thumb.jpg", Data: []byte("t")})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := afero.ReadFile(h.fs.Fs, "/comics/Fresh/001.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	has, err := h.store.HasThumbnail(context.Background(), "Fresh")
	require.NoError(t, err)
	assert.True(t, has)

	_, err = h.store.CreateWork(context.Background(), work, []page.Upload{{Name: "a.jpg"}}, nil)
	assert.True(t, apperr.IsConflict(err))
}
