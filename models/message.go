package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatRoom is the per-order conversation container. It is created
// best-effort when the order is created; a missing room is repaired on
// first message.
type ChatRoom struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ChatRoom model
func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// ChatMessage represents a message in an order conversation
type ChatMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RoomID    uint           `gorm:"not null;index" json:"room_id"` // foreign key to chat_rooms table
	Room      ChatRoom       `gorm:"foreignKey:RoomID" json:"-"`    // don't include full room in JSON
	SenderID  uint           `gorm:"not null;index" json:"sender_id"` // foreign key to users table
	Sender    User           `gorm:"foreignKey:SenderID" json:"sender"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ChatMessage model
func (ChatMessage) TableName() string {
	return "chat_messages"
}
