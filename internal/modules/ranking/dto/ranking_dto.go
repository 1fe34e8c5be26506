package dto

// RankingEntry is one competitor in a ranking. Rank is dense and 1-based.
type RankingEntry struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BestTime  string `json:"best_time"`
	Rank      int    `json:"rank"`
}

type RankingURI struct {
	Class string `uri:"class" binding:"required,max=100"`
}
