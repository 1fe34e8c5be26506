package dto

type OnTrackCompetitor struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TrackRequest is the body of POST and DELETE /v1/ontrack.
type TrackRequest struct {
	ID uint `json:"id" binding:"required,min=1"`
}

type SubmitLapRequest struct {
	ID   uint   `json:"id" binding:"required,min=1"`
	Time string `json:"time" binding:"required"`
}

type TrackResponse struct {
	ID uint `json:"id"`
}

type LapResponse struct {
	ID      uint   `json:"id"`
	LapTime string `json:"lap_time"`
}

type AffectedRows struct {
	AffectedRows int64 `json:"affected_rows"`
}
