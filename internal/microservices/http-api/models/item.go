package models

import "time"

type Item struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	ReleaseYear int       `json:"release_year" gorm:"not null;check:chk_items_release_year,release_year >= 0"`
	GenreID     int64     `json:"genre_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// schema only: a genre with items cannot be deleted
	Genre *Genre `json:"-" gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (Item) TableName() string {
	return "items"
}
