package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dragonden/internal/adapter/repo/gorm/model"
	"dragonden/internal/app/ports"
	"dragonden/internal/domain/account"
)

// UserRepo stores users in users and their acquired dragon set, in insertion order, in
// user_dragons.
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return UserRepo{db: db}
}

func (r UserRepo) Get(ctx context.Context, id string) (account.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r UserRepo) GetByUsername(ctx context.Context, username string) (account.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r UserRepo) first(ctx context.Context, query string, arg any) (account.User, error) {
	db := conn(ctx, r.db)
	var m model.User
	if err := db.Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account.User{}, ports.ErrNotFound
		}
		return account.User{}, err
	}
	owned, err := r.acquired(db, []string{m.ID})
	if err != nil {
		return account.User{}, err
	}
	return userFromModel(m, owned[m.ID]), nil
}

func (r UserRepo) SaveWithVersion(ctx context.Context, u account.User, expectedVersion int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		m := userToModel(u)
		if expectedVersion == 0 {
			if err := tx.Create(&m).Error; err != nil {
				if isUniqueViolation(err) {
					return ports.ErrDuplicate
				}
				return err
			}
		} else {
			res := tx.Model(&model.User{}).
				Where("id = ? AND version = ?", u.ID, expectedVersion).
				Updates(map[string]any{
					"username":      m.Username,
					"name":          m.Name,
					"user_type":     m.UserType,
					"password_hash": m.PasswordHash,
					"password_salt": m.PasswordSalt,
					"version":       m.Version,
					"updated_at":    m.UpdatedAt,
				})
			if res.Error != nil {
				if isUniqueViolation(res.Error) {
					return ports.ErrDuplicate
				}
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ports.ErrVersionConflict
			}
			if err := tx.Where("user_id = ?", u.ID).Delete(&model.UserDragon{}).Error; err != nil {
				return err
			}
		}

		if len(u.AcquiredDragons) == 0 {
			return nil
		}
		links := make([]model.UserDragon, 0, len(u.AcquiredDragons))
		for i, dragonID := range u.AcquiredDragons {
			links = append(links, model.UserDragon{UserID: u.ID, DragonID: dragonID, Position: int32(i)})
		}
		return tx.Create(&links).Error
	})
}

func (r UserRepo) Delete(ctx context.Context, id string, expectedVersion int64) error {
	db := conn(ctx, r.db)
	res := db.Where("id = ? AND version = ?", id, expectedVersion).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.Model(&model.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrVersionConflict
}

func (r UserRepo) List(ctx context.Context) ([]account.User, error) {
	db := conn(ctx, r.db)
	var rows []model.User
	if err := db.Order("username ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	owned, err := r.acquired(db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]account.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, userFromModel(m, owned[m.ID]))
	}
	return out, nil
}

func (r UserRepo) acquired(db *gorm.DB, userIDs []string) (map[string][]string, error) {
	out := map[string][]string{}
	if len(userIDs) == 0 {
		return out, nil
	}
	var links []model.UserDragon
	if err := db.Where("user_id IN ?", userIDs).Order("user_id ASC").Order("position ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.UserID] = append(out[l.UserID], l.DragonID)
	}
	return out, nil
}

func userToModel(u account.User) model.User {
	return model.User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		UserType:     int16(u.Type),
		PasswordHash: u.PasswordHash,
		PasswordSalt: u.PasswordSalt,
		Version:      u.Version,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m model.User, dragons []string) account.User {
	if dragons == nil {
		dragons = []string{}
	}
	return account.User{
		ID:              m.ID,
		Username:        m.Username,
		Name:            m.Name,
		Type:            account.UserType(m.UserType),
		PasswordHash:    m.PasswordHash,
		PasswordSalt:    m.PasswordSalt,
		AcquiredDragons: dragons,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}
