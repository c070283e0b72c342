package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hooptalk/backend/internal/query"
)

// TestParseSort_DropsUnknownFields verifies unrecognized sort fields are
// silently discarded rather than rejected.
func TestParseSort_DropsUnknownFields(t *testing.T) {
	orders := query.ParseSort(query.EntityUser, "username,password,-experience,drop_table")

	assert.Equal(t, []string{"username ASC", "experience DESC"}, orders)
}

// TestParseSort_AllUnknownFallsBack verifies a sort made entirely of bad
// fields yields nothing, so the caller applies the default order.
func TestParseSort_AllUnknownFallsBack(t *testing.T) {
	orders := query.ParseSort(query.EntityInquiry, "nope,-bogus")

	assert.Empty(t, orders)
	assert.Equal(t, "updated_at DESC", query.DefaultOrder(query.EntityInquiry))
}

// TestParseSort_Dedupes verifies a field repeated with different directions
// keeps only the first occurrence.
func TestParseSort_Dedupes(t *testing.T) {
	orders := query.ParseSort(query.EntityUser, "username,-username,username")

	assert.Equal(t, []string{"username ASC"}, orders)
}

// TestParseSort_DescendingPrefix verifies the "-" prefix flips direction.
func TestParseSort_DescendingPrefix(t *testing.T) {
	orders := query.ParseSort(query.EntityChat, "-updated_at,created_at")

	assert.Equal(t, []string{"updated_at DESC", "created_at ASC"}, orders)
}

// TestParseSort_EmptyInput verifies empty input parses to nothing.
func TestParseSort_EmptyInput(t *testing.T) {
	assert.Nil(t, query.ParseSort(query.EntityUser, ""))
	assert.Nil(t, query.ParseSort(query.EntityUser, " , ,-"))
}

// TestParseSort_AllowListIsPerEntity verifies a field valid for one entity
// does not leak into another's allow-list.
func TestParseSort_AllowListIsPerEntity(t *testing.T) {
	assert.Equal(t, []string{"experience ASC"}, query.ParseSort(query.EntityUser, "experience"))
	assert.Empty(t, query.ParseSort(query.EntityPost, "experience"))
}

// TestDefaultOrder verifies the fixed fallback per entity.
func TestDefaultOrder(t *testing.T) {
	assert.Equal(t, "username ASC", query.DefaultOrder(query.EntityUser))
	assert.Equal(t, "created_at DESC", query.DefaultOrder(query.EntityPost))
	assert.Equal(t, "created_at DESC", query.DefaultOrder(query.EntityComment))
	assert.Equal(t, "updated_at DESC", query.DefaultOrder(query.EntityChat))
	assert.Equal(t, "updated_at DESC", query.DefaultOrder(query.EntityInquiry))
}

// TestParseRoles_DropsNonIntegers verifies junk role values are discarded.
func TestParseRoles_DropsNonIntegers(t *testing.T) {
	assert.Equal(t, []int{1, 3}, query.ParseRoles("1,admin,3,"))
	assert.Nil(t, query.ParseRoles("admin,moderator"))
	assert.Nil(t, query.ParseRoles(""))
}
