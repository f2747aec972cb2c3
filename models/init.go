package models

import "gallery/db"

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Grant{})
	db.Instance.AutoMigrate(&Collection{})
	db.Instance.AutoMigrate(&CollectionImage{})
	db.Instance.AutoMigrate(&CollectionTranslation{})
	db.Instance.AutoMigrate(&BlogPost{})
	db.Instance.AutoMigrate(&BlogPostTranslation{})
	db.Instance.AutoMigrate(&Inquiry{})
	db.Instance.AutoMigrate(&Comment{})
}
