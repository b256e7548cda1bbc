// Package repository implements the data access layer.
// This file implements GroupMemberRepository.
package repository

import (
	"nimbus_chat_server/internal/model"

	"gorm.io/gorm"
)

type groupMemberRepository struct {
	db *gorm.DB
}

// NewGroupMemberRepository creates a GroupMemberRepository bound to db.
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// FindByGroupId returns the member rows of a group.
func (r *groupMemberRepository) FindByGroupId(groupId string) ([]model.GroupMember, error) {
	var members []model.GroupMember
	if err := r.db.Where("group_id = ?", groupId).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "find members group_id=%s", groupId)
	}
	return members, nil
}

// CountByGroupId returns the number of member rows of a group.
func (r *groupMemberRepository) CountByGroupId(groupId string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.GroupMember{}).Where("group_id = ?", groupId).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count members group_id=%s", groupId)
	}
	return count, nil
}

// ReplaceForGroup replaces the member rows of a group wholesale. The mirror
// must always match the membership list in the group model, so the old rows
// are hard-deleted rather than soft-deleted.
func (r *groupMemberRepository) ReplaceForGroup(groupId, threadUuid string, memberUuids []string) error {
	if err := r.db.Unscoped().Where("group_id = ?", groupId).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "clear members group_id=%s", groupId)
	}
	if len(memberUuids) == 0 {
		return nil
	}
	rows := make([]model.GroupMember, 0, len(memberUuids))
	for _, uuid := range memberUuids {
		rows = append(rows, model.GroupMember{
			GroupId:    groupId,
			ThreadUuid: threadUuid,
			MemberUuid: uuid,
		})
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return wrapDBErrorf(err, "insert members group_id=%s", groupId)
	}
	return nil
}

// DeleteByGroupId removes all member rows of a group.
func (r *groupMemberRepository) DeleteByGroupId(groupId string) error {
	if err := r.db.Unscoped().Where("group_id = ?", groupId).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "delete members group_id=%s", groupId)
	}
	return nil
}
