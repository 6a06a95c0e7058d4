package models

type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:64;not null;uniqueIndex:ux_genres_name"`
}

func (Genre) TableName() string {
	return "genres"
}
