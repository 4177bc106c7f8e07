// Package contact 负责联系人的持久化，并在配置了 Redis 时做读穿透缓存。
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"qrcontact-platform/internal/apperr"
	"qrcontact-platform/internal/model"
	"qrcontact-platform/internal/vcard"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheKeyPrefix = "contact:"

// Repository 联系人仓储
type Repository struct {
	db     *gorm.DB
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewRepository 创建仓储；redisClient 可以为 nil
func NewRepository(db *gorm.DB, redisClient *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		db:     db,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.Named("contact_repository"),
	}
}

// Create 保存新的联系人
func (r *Repository) Create(ctx context.Context, input vcard.Contact) (*model.Contact, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	c := model.NewContact(uuid.NewString(), input)
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, apperr.Persistence("Failed to save vCard to database", err)
	}
	r.cache(ctx, &c)
	return &c, nil
}

// Get 按 ID 读取联系人
func (r *Repository) Get(ctx context.Context, id string) (*model.Contact, error) {
	if c, ok := r.cached(ctx, id); ok {
		return c, nil
	}

	var c model.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vCard not found")
		}
		return nil, apperr.Persistence("Failed to load vCard", err)
	}
	r.cache(ctx, &c)
	return &c, nil
}

// List 按创建时间倒序返回全部联系人
func (r *Repository) List(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, apperr.Persistence("Failed to list vCards", err)
	}
	return contacts, nil
}

// Update 整体替换联系人字段，不支持部分更新
func (r *Repository) Update(ctx context.Context, id string, input vcard.Contact) (*model.Contact, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	var existing model.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vCard not found")
		}
		return nil, apperr.Persistence("Failed to load vCard", err)
	}

	// 使用 map 更新，nil 字段会写回为 NULL
	updated := model.NewContact(id, input)
	err := r.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"name":    updated.Name,
		"company": updated.Company,
		"title":   updated.Title,
		"email":   updated.Email,
		"phone":   updated.Phone,
		"website": updated.Website,
	}).Error
	if err != nil {
		return nil, apperr.Persistence("Failed to update vCard", err)
	}
	r.evict(ctx, id)
	return &existing, nil
}

// Delete 删除联系人及其全部扫描事件
func (r *Repository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Contact{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("vCard not found")
		}
		return tx.Where("contact_id = ?", id).Delete(&model.ScanEvent{}).Error
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return err
		}
		return apperr.Persistence("Failed to delete vCard", err)
	}
	r.evict(ctx, id)
	return nil
}

func validate(input vcard.Contact) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperr.Validation("name", "Name is required")
	}
	return nil
}

func (r *Repository) cached(ctx context.Context, id string) (*model.Contact, bool) {
	if r.redis == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	val, err := r.redis.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warnw("读取缓存失败", "id", id, "error", err)
		}
		return nil, false
	}
	var c model.Contact
	if err := json.Unmarshal(val, &c); err != nil {
		return nil, false
	}
	return &c, true
}

func (r *Repository) cache(ctx context.Context, c *model.Contact) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.redis.Set(ctx, cacheKeyPrefix+c.ID, data, r.ttl).Err(); err != nil {
		r.logger.Warnw("写入缓存失败", "id", c.ID, "error", err)
	}
}

func (r *Repository) evict(ctx context.Context, id string) {
	if r.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.redis.Del(ctx, cacheKeyPrefix+id).Err(); err != nil {
		r.logger.Warnw("删除缓存失败", "id", id, "error", err)
	}
}
