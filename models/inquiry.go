package models

// Inquiry is a buyer lead. The collection title is denormalized because the
// collection may be deleted or retitled after the inquiry arrives.
type Inquiry struct {
	ID              uint64  `gorm:"primaryKey"`
	CreatedAt       int64   `gorm:"index"`
	CollectionID    *uint64
	CollectionTitle string  `gorm:"type:varchar(200)"`
	FirstName       string  `gorm:"type:varchar(100);not null"`
	LastName        string  `gorm:"type:varchar(100);not null"`
	Email           string  `gorm:"type:varchar(160);not null"`
	Phone           string  `gorm:"type:varchar(40)"`
	Message         string  `gorm:"type:varchar(5000)"`
	OriginIP        string  `gorm:"type:varchar(100)"`
}
