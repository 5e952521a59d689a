package models

import "time"

type ArticleCategory string

const (
	ArticleHowTo           ArticleCategory = "how-to"
	ArticleTroubleshooting ArticleCategory = "troubleshooting"
	ArticlePolicy          ArticleCategory = "policy"
	ArticleFAQ             ArticleCategory = "faq"
	ArticleGeneral         ArticleCategory = "general"
)

// KBArticle has no cross-entity constraints.
type KBArticle struct {
	ArticleID    string          `gorm:"primaryKey" json:"article_id"`
	Title        string          `gorm:"not null" json:"title"`
	Content      string          `gorm:"not null" json:"content"`
	Category     ArticleCategory `gorm:"type:varchar(20)" json:"category"`
	Tags         string          `json:"tags"`
	LastUpdated  time.Time       `json:"last_updated"`
	IsPublished  bool            `json:"is_published"`
	ViewCount    int             `json:"view_count"`
	HelpfulVotes int             `json:"helpful_votes"`
}

func (a KBArticle) RecordID() string { return a.ArticleID }
