package contact

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"qrcontact-platform/internal/apperr"
	"qrcontact-platform/internal/model"
	"qrcontact-platform/internal/vcard"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "contacts.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Contact{}, &model.ScanEvent{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func newRepo(t *testing.T, rdb *redis.Client) (*Repository, *gorm.DB) {
	db := setupDB(t)
	return NewRepository(db, rdb, time.Hour, zap.NewNop().Sugar()), db
}

func TestRepository_CreateTrimsAndStoresAbsentAsNull(t *testing.T) {
	repo, _ := newRepo(t, nil)
	ctx := context.Background()

	created, err := repo.Create(ctx, vcard.Contact{Name: "  John Doe ", Company: "  Acme ", Email: "   "})
	require.NoError(t, err)
	assert.Len(t, created.ID, 36)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
	require.NotNil(t, got.Company)
	assert.Equal(t, "Acme", *got.Company)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.Website)
}

func TestRepository_CreateRequiresName(t *testing.T) {
	repo, _ := newRepo(t, nil)

	_, err := repo.Create(context.Background(), vcard.Contact{Name: "  "})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRepository_GetMissing(t *testing.T) {
	repo, _ := newRepo(t, nil)

	_, err := repo.Get(context.Background(), "does-not-exist")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRepository_UpdateReplacesWholeRecord(t *testing.T) {
	repo, _ := newRepo(t, nil)
	ctx := context.Background()

	created, err := repo.Create(ctx, vcard.Contact{Name: "Jane", Company: "Acme", Phone: "5551234567"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, vcard.Contact{Name: "Jane Roe", Title: "CTO"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", updated.Name)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", got.Name)
	require.NotNil(t, got.Title)
	assert.Equal(t, "CTO", *got.Title)
	assert.Nil(t, got.Company)
	assert.Nil(t, got.Phone)
}

func TestRepository_UpdateErrors(t *testing.T) {
	repo, _ := newRepo(t, nil)
	ctx := context.Background()

	_, err := repo.Update(ctx, "missing", vcard.Contact{Name: "X"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	created, err := repo.Create(ctx, vcard.Contact{Name: "Jane"})
	require.NoError(t, err)
	_, err = repo.Update(ctx, created.ID, vcard.Contact{Name: ""})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRepository_DeleteCascadesScanEvents(t *testing.T) {
	repo, db := newRepo(t, nil)
	ctx := context.Background()

	keep, err := repo.Create(ctx, vcard.Contact{Name: "Keep Me"})
	require.NoError(t, err)
	drop, err := repo.Create(ctx, vcard.Contact{Name: "Drop Me"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&[]model.ScanEvent{
		{ContactID: keep.ID, ScanTime: now, Action: model.ActionScan, DeviceType: model.DeviceMobile},
		{ContactID: drop.ID, ScanTime: now, Action: model.ActionScan, DeviceType: model.DeviceMobile},
		{ContactID: drop.ID, ScanTime: now, Action: model.ActionScan, DeviceType: model.DeviceDesktop},
	}).Error)

	require.NoError(t, repo.Delete(ctx, drop.ID))

	_, err = repo.Get(ctx, drop.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	var remaining int64
	db.Model(&model.ScanEvent{}).Count(&remaining)
	assert.Equal(t, int64(1), remaining)

	err = repo.Delete(ctx, drop.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo, _ := newRepo(t, nil)
	ctx := context.Background()

	first, err := repo.Create(ctx, vcard.Contact{Name: "First"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := repo.Create(ctx, vcard.Contact{Name: "Second"})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestRepository_CacheReadThroughAndEviction(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repo, db := newRepo(t, rdb)
	ctx := context.Background()

	created, err := repo.Create(ctx, vcard.Contact{Name: "Cached"})
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKeyPrefix+created.ID))

	// 直接改库，缓存命中时仍返回旧值
	require.NoError(t, db.Model(&model.Contact{}).Where("id = ?", created.ID).Update("name", "Changed").Error)
	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", got.Name)

	_, err = repo.Update(ctx, created.ID, vcard.Contact{Name: "Updated"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKeyPrefix+created.ID))

	got, err = repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.False(t, mr.Exists(cacheKeyPrefix+created.ID))
}
