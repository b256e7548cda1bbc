package model

import "gorm.io/gorm"

// GroupMember mirrors one entry of a group model's membership list as a row,
// so membership can be queried without decoding the JSON column. The rows are
// replaced wholesale whenever the group model is updated.
type GroupMember struct {
	gorm.Model
	GroupId    string `gorm:"column:group_id;type:char(44);index;not null"`
	ThreadUuid string `gorm:"column:thread_uuid;type:char(20);index;not null"`
	MemberUuid string `gorm:"column:member_uuid;type:char(36);index;not null"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
