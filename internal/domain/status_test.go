package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusToDo, StatusInProgress, StatusCompleted, StatusClosed, StatusConvertedToTask} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("DONE").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusValidForTask(t *testing.T) {
	for _, s := range []Status{StatusToDo, StatusInProgress, StatusCompleted, StatusClosed} {
		assert.True(t, s.ValidForTask(), string(s))
	}
	assert.False(t, StatusConvertedToTask.ValidForTask())
	assert.False(t, Status("DONE").ValidForTask())
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, Priority("Critical").Valid())
	assert.False(t, Priority("low").Valid())
}
