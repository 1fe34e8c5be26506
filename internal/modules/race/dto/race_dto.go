package dto

type CreateRaceRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateRaceResponse struct {
	RaceID uint `json:"race_id"`
}

type UpdateRaceRequest struct {
	ID   uint   `json:"id" binding:"required,min=1"`
	Name string `json:"name" binding:"required,max=100"`
}

type DeleteRaceRequest struct {
	ID uint `json:"id" binding:"required,min=1"`
}

type RaceURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

type RaceSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Managers int64  `json:"manager"`
	IsAdmin  bool   `json:"is_admin"`
}

type Manager struct {
	Username string `json:"username" binding:"required,max=50"`
	IsAdmin  bool   `json:"is_admin"`
}

type RaceDetails struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Managers []Manager `json:"managers"`
}

type UpdateRaceDetailsRequest struct {
	Name     string    `json:"name" binding:"required,max=100"`
	Managers []Manager `json:"managers" binding:"required,min=1,dive"`
}

type ManagerRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	RaceID   uint   `json:"race_id" binding:"required,min=1"`
}

type AffectedRows struct {
	AffectedRows int64 `json:"affected_rows"`
}
