package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem("I1", "Teddy Bear", decimal.RequireFromString("499.999"), "toys")
	require.NoError(t, err)

	assert.Equal(t, "I1", item.ID)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, VisibilityOn, item.Visibility)
	assert.True(t, item.IsVisible())
	assert.False(t, item.Featured)

	_, err = NewItem("", "x", decimal.Zero, "")
	assert.Error(t, err)
	_, err = NewItem("I2", "x", decimal.NewFromInt(-1), "")
	assert.Error(t, err)
}

func TestItem_Apply(t *testing.T) {
	item, err := NewItem("I1", "Mug", decimal.NewFromInt(10), "kitchen")
	require.NoError(t, err)

	off := VisibilityOff
	featured := true
	stock := 7
	price := decimal.RequireFromString("12.50")
	require.NoError(t, item.Apply(ItemPatch{Price: &price, InStock: &stock, Visibility: &off, Featured: &featured}))

	assert.True(t, item.Price.Equal(price))
	assert.Equal(t, 7, item.InStock)
	assert.False(t, item.IsVisible())
	assert.True(t, item.Featured)

	bad := Visibility("maybe")
	assert.Error(t, item.Apply(ItemPatch{Visibility: &bad}))
	neg := -1
	assert.Error(t, item.Apply(ItemPatch{InStock: &neg}))
}

func TestItem_HasStoredImage(t *testing.T) {
	item := &Item{}
	assert.False(t, item.HasStoredImage())

	item.SetImage("items/I1/cover.png")
	assert.True(t, item.HasStoredImage())

	item.SetImage("https://cdn.example.com/a.png")
	assert.False(t, item.HasStoredImage())
}

func TestItem_OwnedBy(t *testing.T) {
	item := &Item{MerchantID: "MBSLR12345"}
	assert.True(t, item.OwnedBy("MBSLR12345"))
	assert.False(t, item.OwnedBy("MBSLR99999"))
	assert.False(t, (&Item{}).OwnedBy(""))
}
