// Package news provides the HTTP handlers for the aggregated news endpoints.
package news

import "catchup-news/internal/domain/entity"

// publishedAtLayout is RFC 3339 with millisecond precision.
const publishedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// DTO represents the JSON structure for an aggregated article.
type DTO struct {
	ID           string  `json:"id" example:"url-2166136261"`
	Title        string  `json:"title" example:"Go 1.25 released"`
	Summary      string  `json:"summary" example:"The Go team is happy to announce..."`
	URL          string  `json:"url" example:"https://go.dev/blog/go1.25"`
	CanonicalURL *string `json:"canonicalUrl" example:"https://go.dev/blog/go1.25"`
	ImageURL     *string `json:"imageUrl" example:"https://go.dev/images/go1.25.png"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	SourceID     string  `json:"sourceId" example:"go-blog"`
	SourceName   string  `json:"sourceName" example:"The Go Blog"`
	SectionSlug  string  `json:"sectionSlug" example:"tech"`
	Author       *string `json:"author"`
	PublishedAt  *string `json:"publishedAt" example:"2025-08-12T16:00:00.000Z"`
}

// ListResponse is the body of GET /api/news.
type ListResponse struct {
	Articles []DTO            `json:"articles"`
	Total    int              `json:"total" example:"42"`
	Page     int              `json:"page" example:"1"`
	Limit    int              `json:"limit" example:"20"`
	Warnings []entity.Warning `json:"warnings"`
}

// SelectionResponse is the body of the curated endpoints.
type SelectionResponse struct {
	Articles []DTO            `json:"articles"`
	Warnings []entity.Warning `json:"warnings"`
}

func toDTO(a entity.Article) DTO {
	var published *string
	if a.PublishedAt != nil {
		s := a.PublishedAt.UTC().Format(publishedAtLayout)
		published = &s
	}
	return DTO{
		ID:           a.ID,
		Title:        a.Title,
		Summary:      a.Summary,
		URL:          a.URL,
		CanonicalURL: a.CanonicalURL,
		ImageURL:     a.ImageURL,
		ThumbnailURL: a.ThumbnailURL,
		SourceID:     a.SourceID,
		SourceName:   a.SourceName,
		SectionSlug:  a.SectionSlug,
		Author:       a.Author,
		PublishedAt:  published,
	}
}

// toDTOs never returns nil so the JSON array is always present.
func toDTOs(articles []entity.Article) []DTO {
	out := make([]DTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, toDTO(a))
	}
	return out
}

func nonNilWarnings(ws []entity.Warning) []entity.Warning {
	if ws == nil {
		return []entity.Warning{}
	}
	return ws
}
