package models

type Comment struct {
	ID           uint64     `gorm:"primaryKey"`
	CreatedAt    int64
	UpdatedAt    int64
	CollectionID uint64     `gorm:"not null;index"`
	Collection   Collection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID       uint64     `gorm:"not null"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text         string     `gorm:"type:varchar(2000);not null"`
}
