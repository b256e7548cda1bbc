// Package repository implements the data access layer.
// Interfaces, the Repositories aggregate and the transaction wrapper live in
// this file; the per-record implementations live in their own files.
package repository

import (
	"errors"

	"nimbus_chat_server/internal/model"
	"nimbus_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBError maps database errors to business codes:
// ErrRecordNotFound -> CodeNotFound, everything else -> CodeDBError.
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf is wrapDBError with a formatted message.
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// ThreadRepository provides access to group thread rows.
//
// Mutating methods must only be called by groupmgr.GroupManager, and only
// from inside a Repositories.Transaction callback, so that every group-state
// transition happens under a single write transaction.
type ThreadRepository interface {
	// FindByGroupId looks a group thread up by its group identifier.
	FindByGroupId(groupId string) (*model.GroupThread, error)
	// FindByUuid looks a group thread up by its thread uuid.
	FindByUuid(uuid string) (*model.GroupThread, error)
	// Create inserts a new group thread row.
	Create(thread *model.GroupThread) error
	// Save writes back every column of an already-loaded thread.
	Save(thread *model.GroupThread) error
	// UpdateColumns updates the named columns of one thread.
	UpdateColumns(uuid string, updates map[string]interface{}) error
	// TouchLastInteraction raises the ordering key, never lowers it.
	TouchLastInteraction(uuid string, rowId int64) error
	// SoftDeleteByGroupId soft-deletes the thread row of a group.
	SoftDeleteByGroupId(groupId string) error
}

// GroupMemberRepository maintains the queryable mirror of group membership.
type GroupMemberRepository interface {
	// FindByGroupId returns the member rows of a group.
	FindByGroupId(groupId string) ([]model.GroupMember, error)
	// CountByGroupId returns the number of member rows of a group.
	CountByGroupId(groupId string) (int64, error)
	// ReplaceForGroup replaces the member rows of a group wholesale.
	ReplaceForGroup(groupId, threadUuid string, memberUuids []string) error
	// DeleteByGroupId removes all member rows of a group.
	DeleteByGroupId(groupId string) error
}

// Repositories aggregates all repositories. Services receive it via
// constructor injection.
type Repositories struct {
	Thread      ThreadRepository
	GroupMember GroupMemberRepository

	db *gorm.DB
}

// NewRepositories binds every repository to the given database handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Thread:      NewThreadRepository(db),
		GroupMember: NewGroupMemberRepository(db),
		db:          db,
	}
}

// Transaction runs fn inside one database transaction. The callback receives
// a Repositories aggregate rebound to the transaction handle; returning an
// error rolls everything back.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
