package operation

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Username    string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:128;not null" json:"-"`
	DisplayName string    `gorm:"size:64;not null;default:''" json:"display_name"`
	AvatarUrl   string    `gorm:"size:256;not null;default:''" json:"avatar_url"`
	Permission  int64     `gorm:"default:0;not null" json:"permission"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

type Notice struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	AuthorId    uint           `gorm:"index;not null" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorId;references:ID" json:"author,omitempty"`
	Title       string         `gorm:"size:128;not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	ImageUrl    string         `gorm:"size:256;not null;default:''" json:"image_url"`
	Pinned      bool           `gorm:"default:false;not null;index" json:"pinned"`
	Status      NoticeStatus   `gorm:"default:0;not null;index" json:"status"`
	PublishedAt *time.Time     `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type NoticeRead struct {
	ID        uint      `gorm:"primarykey"`
	NoticeId  uint      `gorm:"uniqueIndex:notice_reader;not null"`
	UserId    uint      `gorm:"uniqueIndex:notice_reader;not null"`
	CreatedAt time.Time `json:"-"`
}

type Schedule struct {
	ID           uint                   `gorm:"primarykey" json:"id"`
	OwnerId      uint                   `gorm:"index;not null" json:"owner_id"`
	Owner        *User                  `gorm:"foreignKey:OwnerId;references:ID" json:"owner,omitempty"`
	Title        string                 `gorm:"size:128;not null" json:"title"`
	Description  string                 `gorm:"type:text;not null" json:"description"`
	Location     string                 `gorm:"size:128;not null;default:''" json:"location"`
	StartAt      time.Time              `gorm:"index;not null" json:"start_at"`
	EndAt        time.Time              `gorm:"index;not null" json:"end_at"`
	Capacity     int                    `gorm:"default:0;not null" json:"capacity"` // 0 表示不限人数
	Participants []*ScheduleParticipant `gorm:"foreignKey:ScheduleId;references:ID" json:"participants,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	DeletedAt    gorm.DeletedAt         `gorm:"index" json:"-"`
}

type ScheduleParticipant struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ScheduleId uint      `gorm:"uniqueIndex:schedule_participant;not null" json:"schedule_id"`
	UserId     uint      `gorm:"uniqueIndex:schedule_participant;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserId;references:ID" json:"user,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Setting struct {
	Key       string    `gorm:"primarykey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuditLog struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	EventType     string        `gorm:"size:64;index;not null" json:"event_type"`
	Subject       uint          `gorm:"index;not null" json:"subject"`
	Object        string        `gorm:"size:128;not null" json:"object"`
	Ip            string        `gorm:"size:64;not null" json:"ip"`
	UserAgent     string        `gorm:"size:256;not null" json:"user_agent"`
	ChangeDetails *ChangeDetail `gorm:"type:text;serializer:json" json:"change_details"`
	CreatedAt     time.Time     `json:"created_at"`
}

type ChangeDetail struct {
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// AllModels 需要迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{&User{}, &Notice{}, &NoticeRead{}, &Schedule{}, &ScheduleParticipant{}, &Setting{}, &AuditLog{}}
}
