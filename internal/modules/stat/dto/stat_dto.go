package dto

type RaceStats struct {
	Competitors int64 `json:"competitors"`
	Laps        int64 `json:"laps"`
	OnTrack     int64 `json:"on_track"`
	Categories  int64 `json:"categories"`
}
