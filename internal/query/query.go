// Package query builds filtered, sorted, paginated gorm queries over the
// service's entity collections from raw request parameters. Bad sort/roles
// input is never an error: unrecognized values are silently dropped and the
// entity's default order applies.
package query

import (
	"strconv"
	"strings"

	"gorm.io/gorm"

	"hooptalk/backend/internal/models"
)

// Entity tags the collection a query is built over.
type Entity int

const (
	EntityUser Entity = iota
	EntityPost
	EntityComment
	EntityChat
	EntityInquiry
)

// allowedSortFields is the per-entity allow-list of sortable columns.
// Tokens arrive as "field" or "-field"; only the base name is checked.
var allowedSortFields = map[Entity]map[string]bool{
	EntityUser: {
		"username":   true,
		"email":      true,
		"experience": true,
		"created_at": true,
	},
	EntityPost: {
		"title":      true,
		"created_at": true,
	},
	EntityComment: {
		"created_at": true,
	},
	EntityChat: {
		"created_at": true,
		"updated_at": true,
	},
	EntityInquiry: {
		"title":      true,
		"created_at": true,
		"updated_at": true,
	},
}

// defaultOrder is the fallback applied when no valid sort field survives.
var defaultOrder = map[Entity]string{
	EntityUser:    "username ASC",
	EntityPost:    "created_at DESC",
	EntityComment: "created_at DESC",
	EntityChat:    "updated_at DESC",
	EntityInquiry: "updated_at DESC",
}

// Params are the raw, untrusted request parameters the builder consumes.
type Params struct {
	// Sort is a comma-separated field list; "-" prefixes mean descending.
	Sort string
	// Search is a single free-text term matched case-insensitively against
	// entity-specific columns.
	Search string
	// Roles is a comma-separated list of role ids. Users only.
	Roles string
}

// ParseSort filters the raw sort parameter against the entity's allow-list
// and returns ORDER BY expressions. An empty result means the caller should
// fall back to DefaultOrder.
func ParseSort(entity Entity, raw string) []string {
	if raw == "" {
		return nil
	}

	allowed := allowedSortFields[entity]
	seen := make(map[string]bool)
	var orders []string

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		field := strings.TrimPrefix(token, "-")
		if field == "" || !allowed[field] || seen[field] {
			continue
		}
		seen[field] = true
		if strings.HasPrefix(token, "-") {
			orders = append(orders, field+" DESC")
		} else {
			orders = append(orders, field+" ASC")
		}
	}
	return orders
}

// DefaultOrder returns the fixed fallback order for an entity.
func DefaultOrder(entity Entity) string {
	return defaultOrder[entity]
}

// ParseRoles parses the comma-separated role id list, dropping anything that
// is not an integer. Returns nil when nothing valid remains.
func ParseRoles(raw string) []int {
	if raw == "" {
		return nil
	}
	var ids []int
	for _, token := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

type builder struct {
	filters        map[string]any
	scopes         []func(*gorm.DB) *gorm.DB
	fieldsOnly     []string
	includeDeleted bool
}

// Option customizes a Build call.
type Option func(*builder)

// WithFilter adds an equality filter on a column.
func WithFilter(column string, value any) Option {
	return func(b *builder) { b.filters[column] = value }
}

// WithScope adds compound predicates that equality filters cannot express,
// e.g. status-in-set for posts.
func WithScope(scopes ...func(*gorm.DB) *gorm.DB) Option {
	return func(b *builder) { b.scopes = append(b.scopes, scopes...) }
}

// WithFieldsOnly restricts the materialized columns to exactly the given
// set. A projection optimization only; result identity and count are
// unchanged.
func WithFieldsOnly(fields ...string) Option {
	return func(b *builder) { b.fieldsOnly = fields }
}

// WithDeletedIncluded widens post/comment queries to soft-deleted rows.
func WithDeletedIncluded() Option {
	return func(b *builder) { b.includeDeleted = true }
}

// Build constructs the query. It is side-effect-free and safe to call
// repeatedly; the returned *gorm.DB has not been executed.
func Build(db *gorm.DB, entity Entity, params Params, opts ...Option) *gorm.DB {
	b := &builder{filters: make(map[string]any)}
	for _, opt := range opts {
		opt(b)
	}

	tx := db.Model(modelFor(entity))

	if len(b.filters) > 0 {
		tx = tx.Where(b.filters)
	}
	for _, scope := range b.scopes {
		tx = scope(tx)
	}

	if term := strings.TrimSpace(params.Search); term != "" {
		tx = applySearch(tx, db, entity, term)
	}

	if entity == EntityUser {
		if roles := ParseRoles(params.Roles); roles != nil {
			tx = tx.Where("role_id IN ?", roles)
		}
	}

	if !b.includeDeleted && (entity == EntityPost || entity == EntityComment) {
		deleted := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.PostStatus{}).
			Select("id").
			Where("name = ?", models.PostStatusDeleted)
		tx = tx.Where("status_id NOT IN (?)", deleted)
	}

	orders := ParseSort(entity, params.Sort)
	if len(orders) == 0 {
		tx = tx.Order(DefaultOrder(entity))
	} else {
		for _, order := range orders {
			tx = tx.Order(order)
		}
	}

	if len(b.fieldsOnly) > 0 {
		tx = tx.Select(b.fieldsOnly)
	}

	return tx
}

func modelFor(entity Entity) any {
	switch entity {
	case EntityUser:
		return &models.User{}
	case EntityPost:
		return &models.Post{}
	case EntityComment:
		return &models.PostComment{}
	case EntityChat:
		return &models.UserChat{}
	default:
		return &models.Inquiry{}
	}
}

// applySearch adds the entity-specific OR-combined case-insensitive
// substring filters. Chats match on either participant's username, which
// needs a join through the participant table.
func applySearch(tx *gorm.DB, db *gorm.DB, entity Entity, term string) *gorm.DB {
	pattern := "%" + term + "%"
	switch entity {
	case EntityUser:
		return tx.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	case EntityPost:
		return tx.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	case EntityComment:
		return tx.Where("content ILIKE ?", pattern)
	case EntityChat:
		return tx.
			Joins("JOIN user_chat_participants scp ON scp.chat_id = user_chats.id").
			Joins("JOIN users su ON su.id = scp.user_id").
			Where("su.username ILIKE ?", pattern).
			Distinct("user_chats.*")
	default:
		return tx.Where("title ILIKE ?", pattern)
	}
}
