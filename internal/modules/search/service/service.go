package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
	"racego.com/raceapi/internal/entity"
	"racego.com/raceapi/pkg/sanitize"
)

const competitorsIndex = "competitors"

// SearchService keeps a full text index of competitors. Callers treat a nil
// SearchService as search being disabled.
type SearchService interface {
	IndexCompetitor(competitor *entity.Competitor, classes []string) error
	DeleteCompetitor(id uint) error
	SearchCompetitors(raceID uint, query string, limit int64) ([]uint, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"race_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index(competitorsIndex).UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update competitors filterable attributes: %v", err)
	}

	searchable := []string{"first_name", "last_name", "classes"}
	_, err = s.client.Index(competitorsIndex).UpdateSearchableAttributes(&searchable)
	if err != nil {
		log.Printf("Failed to update competitors searchable attributes: %v", err)
	}
}

type competitorDoc struct {
	ID        string   `json:"id"`
	RaceID    uint     `json:"race_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Classes   []string `json:"classes"`
}

func (s *meiliSearchService) IndexCompetitor(competitor *entity.Competitor, classes []string) error {
	doc := competitorDoc{
		ID:        strconv.FormatUint(uint64(competitor.ID), 10),
		RaceID:    competitor.RaceID,
		FirstName: sanitize.Text(competitor.FirstName),
		LastName:  sanitize.Text(competitor.LastName),
		Classes:   sanitize.Labels(classes),
	}

	task, err := s.client.Index(competitorsIndex).AddDocuments([]competitorDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed competitor %d, task id: %d", competitor.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteCompetitor(id uint) error {
	_, err := s.client.Index(competitorsIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

// SearchCompetitors returns the ids of matching competitors of one race in
// relevance order.
func (s *meiliSearchService) SearchCompetitors(raceID uint, query string, limit int64) ([]uint, error) {
	raw, err := s.client.Index(competitorsIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Filter:               fmt.Sprintf("race_id = %d", raceID),
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
