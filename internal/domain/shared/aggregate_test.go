package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_PullEventsClears(t *testing.T) {
	a := NewAggregate("123456")
	assert.Empty(t, a.PullEvents())

	first := NewBaseDomainEvent("OrderPlaced", "Order", "123456")
	second := NewBaseDomainEvent("OrderPlaced", "Order", "123456")
	a.Record(&first)
	a.Record(&second)

	pulled := a.PullEvents()
	assert.Len(t, pulled, 2)
	assert.Equal(t, first.ID, pulled[0].EventID())
	assert.Empty(t, a.PullEvents())
}
