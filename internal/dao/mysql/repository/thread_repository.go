// Package repository implements the data access layer.
// This file implements ThreadRepository.
package repository

import (
	"nimbus_chat_server/internal/model"

	"gorm.io/gorm"
)

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a ThreadRepository bound to db.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// FindByGroupId looks a group thread up by its group identifier.
func (r *threadRepository) FindByGroupId(groupId string) (*model.GroupThread, error) {
	var thread model.GroupThread
	if err := r.db.First(&thread, "group_id = ?", groupId).Error; err != nil {
		return nil, wrapDBErrorf(err, "find thread group_id=%s", groupId)
	}
	return &thread, nil
}

// FindByUuid looks a group thread up by its thread uuid.
func (r *threadRepository) FindByUuid(uuid string) (*model.GroupThread, error) {
	var thread model.GroupThread
	if err := r.db.First(&thread, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "find thread uuid=%s", uuid)
	}
	return &thread, nil
}

// Create inserts a new group thread row. The unique indexes on uuid and
// group_id reject duplicate creation races.
func (r *threadRepository) Create(thread *model.GroupThread) error {
	if err := r.db.Create(thread).Error; err != nil {
		return wrapDBError(err, "create thread")
	}
	return nil
}

// Save writes back every column of an already-loaded thread.
func (r *threadRepository) Save(thread *model.GroupThread) error {
	if err := r.db.Save(thread).Error; err != nil {
		return wrapDBErrorf(err, "save thread uuid=%s", thread.Uuid)
	}
	return nil
}

// UpdateColumns updates the named columns of one thread.
func (r *threadRepository) UpdateColumns(uuid string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.Model(&model.GroupThread{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "update thread uuid=%s", uuid)
	}
	return nil
}

// TouchLastInteraction raises last_interaction_row_id to rowId. The guard in
// the WHERE clause keeps the key monotone under concurrent touches.
func (r *threadRepository) TouchLastInteraction(uuid string, rowId int64) error {
	err := r.db.Model(&model.GroupThread{}).
		Where("uuid = ? AND last_interaction_row_id < ?", uuid, rowId).
		UpdateColumn("last_interaction_row_id", rowId).Error
	if err != nil {
		return wrapDBErrorf(err, "touch thread uuid=%s", uuid)
	}
	return nil
}

// SoftDeleteByGroupId soft-deletes the thread row of a group.
func (r *threadRepository) SoftDeleteByGroupId(groupId string) error {
	if err := r.db.Where("group_id = ?", groupId).Delete(&model.GroupThread{}).Error; err != nil {
		return wrapDBErrorf(err, "delete thread group_id=%s", groupId)
	}
	return nil
}
