package entity

import "time"

type Race struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Race) TableName() string { return "race_overview" }

// RaceRelation grants a login manager rights on a race; IsAdmin marks the
// managers allowed to rename, delete and edit the manager list.
type RaceRelation struct {
	ID      uint `gorm:"primaryKey" json:"-"`
	LoginID uint `gorm:"not null;uniqueIndex:idx_relation_login_race,priority:1" json:"login_id"`
	RaceID  uint `gorm:"not null;uniqueIndex:idx_relation_login_race,priority:2;index" json:"race_id"`
	IsAdmin bool `gorm:"not null;default:false" json:"is_admin"`
}

func (RaceRelation) TableName() string { return "race_relations" }
