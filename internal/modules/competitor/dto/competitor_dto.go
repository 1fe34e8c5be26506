package dto

type CompetitorURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

type CompetitorSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Laps      int64  `json:"laps"`
}

type CompetitorDetails struct {
	ID        uint     `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Class     []string `json:"class"`
	Laps      []string `json:"laps"`
}

// CompetitorRequest is the body of both POST /v1/user and PUT /v1/user/:id.
// Class and Laps replace the stored sets entirely on update.
type CompetitorRequest struct {
	FirstName string   `json:"first_name" binding:"required,max=100"`
	LastName  string   `json:"last_name" binding:"required,max=100"`
	Class     []string `json:"class" binding:"omitempty,dive,max=100"`
	Laps      []string `json:"laps" binding:"omitempty,dive,laptime"`
}

type DeleteCompetitorRequest struct {
	ID uint `json:"id" binding:"required,min=1"`
}

type CreateCompetitorResponse struct {
	ID uint `json:"id"`
}

type SearchQuery struct {
	Query string `form:"q" binding:"required,max=100"`
	Limit int64  `form:"limit" binding:"omitempty,min=1,max=50"`
}

type AffectedRows struct {
	AffectedRows int64 `json:"affected_rows"`
}
