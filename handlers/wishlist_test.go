package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
)

func TestRemoveFromWishlistOwnership(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	wc := NewWishlistController(mem.Wishlist(), mem.Properties(), mem.Users())

	item := models.WishlistItem{UserEmail: "buyer@estate.test", PropertyID: primitive.NewObjectID().Hex()}
	_, err := mem.Wishlist().Insert(ctx, &item)
	require.NoError(t, err)

	remove := func(email string) (int, error) {
		c, rec := newTestContext(t, http.MethodDelete, "/wishlist/:id", "",
			models.Identity{Email: email, Role: models.RoleUser})
		c.SetParamNames("id")
		c.SetParamValues(item.ID.Hex())
		return rec.Code, wc.RemoveFromWishlist(c)
	}

	t.Run("another buyer cannot remove it", func(t *testing.T) {
		_, err := remove("other@estate.test")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

		items, err := mem.Wishlist().ListByUser(ctx, "buyer@estate.test")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("the owner can", func(t *testing.T) {
		code, err := remove("buyer@estate.test")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, code)

		items, err := mem.Wishlist().ListByUser(ctx, "buyer@estate.test")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
