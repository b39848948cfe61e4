package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	apperrors "github.com/eatwell/eatwell-backend/internal/errors"
)

func TestProductController(t *testing.T) {
	ts := setupTestServer(t)
	ts.mountProducts()
	_, token := ts.createUser(t, "Shopper", "shopper@example.com", "password123", true)

	product := &model.Product{Name: "Masala Chai", Price: 4.5, Category: "beverages", StockQuantity: 30}
	require.NoError(t, ts.db.Create(product).Error)

	t.Run("session required", func(t *testing.T) {
		w := ts.do("GET", "/products", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := ts.do("GET", "/products", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		require.Len(t, products, 1)
		assert.Equal(t, "Masala Chai", products[0].Name)
		assert.Equal(t, 30, products[0].StockQuantity)
	})

	t.Run("get", func(t *testing.T) {
		w := ts.do("GET", fmt.Sprintf("/products/%d", product.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Masala Chai", decodeBody(t, w)["name"])
	})

	t.Run("unknown product", func(t *testing.T) {
		w := ts.do("GET", "/products/9999", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ProductNotFound, decodeBody(t, w)["error"])
	})

	t.Run("malformed id", func(t *testing.T) {
		w := ts.do("GET", "/products/abc", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidID, decodeBody(t, w)["error"])
	})
}
