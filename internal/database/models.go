package database

import "maeul/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Post{},
		&models.PostText{},
		&models.PostImage{},
		&models.Comment{},
		&models.Heart{},
		&models.CommentHeart{},
		&models.Neighbor{},
	}
}
