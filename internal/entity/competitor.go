package entity

// Competitor is a participant of a single race. The table keeps its historic
// name "user"; logins live in the separate login table.
type Competitor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RaceID    uint   `gorm:"not null;uniqueIndex:idx_user_race_name,priority:1" json:"race_id"`
	FirstName string `gorm:"size:100;not null;uniqueIndex:idx_user_race_name,priority:2" json:"first_name"`
	LastName  string `gorm:"size:100;not null;uniqueIndex:idx_user_race_name,priority:3" json:"last_name"`
}

func (Competitor) TableName() string { return "user" }

type UserClass struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	RaceID    uint   `gorm:"not null;index" json:"race_id"`
	UserIDRef uint   `gorm:"column:user_id_ref;not null;index" json:"user_id"`
	Class     string `gorm:"size:100;not null" json:"class"`
}

func (UserClass) TableName() string { return "user_class" }

// Lap is an immutable timing record in canonical HH:MM:SS.mmm form.
type Lap struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RaceID    uint   `gorm:"not null;index" json:"race_id"`
	UserIDRef uint   `gorm:"column:user_id_ref;not null;index" json:"user_id"`
	LapTime   string `gorm:"size:16;not null" json:"lap_time"`
}

func (Lap) TableName() string { return "laps" }

// Track holds the competitors currently running. The unique index turns a
// concurrent double insert into a detectable conflict.
type Track struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	RaceID    uint `gorm:"not null;uniqueIndex:idx_track_user,priority:1" json:"race_id"`
	UserIDRef uint `gorm:"column:user_id_ref;not null;uniqueIndex:idx_track_user,priority:2" json:"user_id"`
}

func (Track) TableName() string { return "track" }
