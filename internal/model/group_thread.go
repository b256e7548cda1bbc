// Package model defines the persisted records.
// This file defines the group conversation thread and its group model.
package model

import (
	"encoding/json"

	"nimbus_chat_server/pkg/constants"
)

// GroupModel is the descriptive state of a group: identity, name, avatar and
// membership. It is stored inline in the group_thread row, so a GroupThread
// owns exactly one GroupModel at all times.
type GroupModel struct {
	// GroupId is the group's wire identifier (base64 of the group master key
	// digest), independent of the thread uuid.
	GroupId string `gorm:"column:group_id;uniqueIndex;type:char(44);not null"`

	Name string `gorm:"column:name;type:varchar(100)"`

	// Avatar is the storage reference of the group avatar, empty when unset.
	Avatar string `gorm:"column:avatar;type:varchar(255)"`

	// Members is the JSON-encoded list of member uuids. A mirror of this list
	// is kept as GroupMember rows for querying.
	Members string `gorm:"column:members;type:TEXT"`

	// Revision is the group-state version. Updates carrying a lower revision
	// than the stored one are rejected as stale.
	Revision int64 `gorm:"column:revision;not null;default:0"`

	MemberCnt int `gorm:"column:member_cnt;not null;default:0"`
}

// MemberUuids decodes the membership list. A corrupt column decodes to nil.
func (m *GroupModel) MemberUuids() []string {
	if m.Members == "" {
		return nil
	}
	var uuids []string
	if err := json.Unmarshal([]byte(m.Members), &uuids); err != nil {
		return nil
	}
	return uuids
}

// SetMemberUuids encodes the membership list and keeps MemberCnt in sync.
func (m *GroupModel) SetMemberUuids(uuids []string) error {
	raw, err := json.Marshal(uuids)
	if err != nil {
		return err
	}
	m.Members = string(raw)
	m.MemberCnt = len(uuids)
	return nil
}

// AvatarDiffers reports whether replacing the receiver with other would
// change the group avatar.
func (m *GroupModel) AvatarDiffers(other *GroupModel) bool {
	return m.Avatar != other.Avatar
}

// GroupThread is the persisted record of a multi-member conversation.
//
// GroupThreads are created and mutated only through groupmgr.GroupManager,
// which runs every mutation inside a write transaction and keeps the
// GroupMember mirror, the cache and downstream notifications consistent.
// Other code must treat instances as read-only snapshots.
type GroupThread struct {
	Thread
	GroupModel GroupModel `gorm:"embedded"`
}

// TableName maps the record to the group_thread table.
func (GroupThread) TableName() string {
	return "group_thread"
}

// GroupNameOrDefault returns the group name, or the default placeholder for
// unnamed groups.
func (t *GroupThread) GroupNameOrDefault() string {
	if t.GroupModel.Name != "" {
		return t.GroupModel.Name
	}
	return DefaultGroupName()
}

// DefaultGroupName is the display name used for groups without a name.
func DefaultGroupName() string {
	return constants.DEFAULT_GROUP_NAME
}
