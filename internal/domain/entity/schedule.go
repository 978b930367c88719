package entity

import "time"

// ReminderSchedule holds one user's daily reminder configuration.
type ReminderSchedule struct {
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Enabled   bool      `gorm:"column:enabled"`
	Hour      int       `gorm:"column:hour"`
	Minute    int       `gorm:"column:minute"`
	BotToken  string    `gorm:"column:bot_token"`
	ChatID    string    `gorm:"column:chat_id"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for the ReminderSchedule entity.
func (ReminderSchedule) TableName() string {
	return "reminder_schedule"
}

// HasTarget reports whether both delivery target fields are set.
func (s *ReminderSchedule) HasTarget() bool {
	return s.BotToken != "" && s.ChatID != ""
}
