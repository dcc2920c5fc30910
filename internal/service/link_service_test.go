package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink-redirect/internal/apperrors"
	"shortlink-redirect/internal/config"
	"shortlink-redirect/internal/dto"
	"shortlink-redirect/internal/repository"
)

func newTestLinkService(t *testing.T) (*LinkService, *repository.LinkRepository, *fakeCache) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenDB(config.DBConfig{
		Type:         "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.CloseDB(db) })

	repo := repository.NewLinkRepository(db, zap.NewNop())
	cache := newFakeCache()
	return NewLinkService(repo, cache, zap.NewNop()), repo, cache
}

func appErrorCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestLinkServiceCreate(t *testing.T) {
	svc, _, cache := newTestLinkService(t)
	ctx := context.Background()

	// 创建前缓存中已有 not_found
	cache.data["redirect:launch"] = []byte(`{"redirect_url":"/invalid-link","deprecated":false}`)

	link, err := svc.Create(ctx, dto.CreateLinkRequest{ShortPath: "launch", RedirectURL: "https://example.com"})
	require.NoError(t, err)
	assert.NotZero(t, link.ID)
	assert.NotContains(t, cache.data, "redirect:launch")

	_, err = svc.Create(ctx, dto.CreateLinkRequest{ShortPath: "launch", RedirectURL: "https://example.com"})
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))

	_, err = svc.Create(ctx, dto.CreateLinkRequest{ShortPath: "urls", RedirectURL: "https://example.com"})
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))

	_, err = svc.Create(ctx, dto.CreateLinkRequest{ShortPath: "vip", RedirectURL: "https://internal.example.com", Private: true})
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

func TestLinkServiceUpdateAndDeprecate(t *testing.T) {
	svc, repo, cache := newTestLinkService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateLinkRequest{ShortPath: "launch", RedirectURL: "https://example.com"})
	require.NoError(t, err)

	newURL := "https://example.com/v2"
	link, err := svc.Update(ctx, "launch", dto.UpdateLinkRequest{RedirectURL: &newURL})
	require.NoError(t, err)
	assert.Equal(t, newURL, link.RedirectURL)

	private := true
	_, err = svc.Update(ctx, "launch", dto.UpdateLinkRequest{Private: &private})
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))

	_, err = svc.SetDeprecated(ctx, "launch", true)
	require.NoError(t, err)
	stored, err := repo.Get(ctx, "launch")
	require.NoError(t, err)
	assert.True(t, stored.Deprecated)
	assert.Contains(t, cache.deleted, "redirect:launch")

	_, err = svc.SetDeprecated(ctx, "missing", true)
	assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
}

func TestLinkServiceDeleteAndList(t *testing.T) {
	svc, _, cache := newTestLinkService(t)
	ctx := context.Background()

	pw := "s3cret"
	for _, req := range []dto.CreateLinkRequest{
		{ShortPath: "launch", RedirectURL: "https://example.com"},
		{ShortPath: "team/docs", RedirectURL: "https://docs.example.com"},
		{ShortPath: "vip", RedirectURL: "https://internal.example.com", Private: true, Password: &pw},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, dto.ListLinksQuery{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPage)
	assert.Len(t, page.List, 2)

	public, err := svc.ListPublic(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, public, 2)
	for _, p := range public {
		assert.NotEqual(t, "vip", p.ShortPath)
	}

	require.NoError(t, svc.Delete(ctx, "launch"))
	assert.Contains(t, cache.deleted, "redirect:launch")
	assert.Equal(t, http.StatusNotFound, appErrorCode(t, svc.Delete(ctx, "launch")))
}

func TestLinkServiceCacheDownStillMutates(t *testing.T) {
	svc, repo, cache := newTestLinkService(t)
	cache.down = true
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateLinkRequest{ShortPath: "launch", RedirectURL: "https://example.com"})
	require.NoError(t, err)
	exists, err := repo.Exists(ctx, "launch")
	require.NoError(t, err)
	assert.True(t, exists)
}
