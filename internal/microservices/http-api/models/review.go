package models

import "time"

const (
	MinRating        = 1
	MaxRating        = 10
	MaxCommentLength = 250
)

type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ItemID    int64     `json:"item_id" gorm:"not null;index"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 10"`
	Comment   string    `json:"comment" gorm:"size:250;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// schema only: reviews go away with their item or author
	Item *Item `json:"-" gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
