package storage

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/query"
)

// GetUserByID loads a user with their role. Returns nil without error when
// the user does not exist.
func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("Role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("Role").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser persists a user row.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// userListingColumns are the profile card columns the user listing
// materializes. The long-form introduction and the email stay on the
// single-user view.
var userListingColumns = []string{
	"id", "role_id", "username", "experience", "chat_blocked",
	"is_profile_visible", "favorite_teams", "created_at", "updated_at",
}

// ListUsers returns users matching the request parameters.
func (s *Service) ListUsers(params query.Params) ([]models.User, error) {
	var users []models.User
	err := query.Build(s.DB, query.EntityUser, params,
		query.WithFilter("is_profile_visible", true),
		query.WithFieldsOnly(userListingColumns...),
	).Find(&users).Error
	if err != nil {
		log.Printf("ERROR: Failed to list users: %v", err)
		return nil, err
	}
	return users, nil
}

// ListUserPosts returns one user's posts. Soft-deleted rows are excluded
// unless the caller widens the listing for a moderator view.
func (s *Service) ListUserPosts(userID uint, params query.Params, includeDeleted bool) ([]models.Post, error) {
	opts := []query.Option{query.WithFilter("user_id", userID)}
	if includeDeleted {
		opts = append(opts, query.WithDeletedIncluded())
	}

	var posts []models.Post
	err := query.Build(s.DB, query.EntityPost, params, opts...).Find(&posts).Error
	if err != nil {
		log.Printf("ERROR: Failed to list posts for user %d: %v", userID, err)
		return nil, err
	}
	return posts, nil
}

// ListUserComments returns one user's comments, widened like ListUserPosts.
func (s *Service) ListUserComments(userID uint, params query.Params, includeDeleted bool) ([]models.PostComment, error) {
	opts := []query.Option{query.WithFilter("user_id", userID)}
	if includeDeleted {
		opts = append(opts, query.WithDeletedIncluded())
	}

	var comments []models.PostComment
	err := query.Build(s.DB, query.EntityComment, params, opts...).Find(&comments).Error
	if err != nil {
		log.Printf("ERROR: Failed to list comments for user %d: %v", userID, err)
		return nil, err
	}
	return comments, nil
}

// CreateUserLike records a like and returns the liked user's new like count.
// Liking twice is a no-op thanks to the unique pair index.
func (s *Service) CreateUserLike(userID, likedUserID uint) (int64, error) {
	like := models.UserLike{UserID: userID, LikedUserID: likedUserID}
	err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
	if err != nil {
		return 0, err
	}

	var count int64
	err = s.DB.Model(&models.UserLike{}).
		Where("liked_user_id = ?", likedUserID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteUserLike removes a like if present.
func (s *Service) DeleteUserLike(userID, likedUserID uint) error {
	return s.DB.
		Where("user_id = ? AND liked_user_id = ?", userID, likedUserID).
		Delete(&models.UserLike{}).Error
}
