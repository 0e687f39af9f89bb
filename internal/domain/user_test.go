package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.UnixMilli(1_700_000_000_000)

func TestUserAvailability(t *testing.T) {
	u := NewUser("c1", "Alice", ProfileInput{}, t0)
	assert.False(t, u.AvailableAt(t0))

	u.SetAvailable(1, t0)
	assert.True(t, u.AvailableAt(t0.Add(30*time.Second)))
	assert.False(t, u.AvailableAt(t0.Add(time.Minute)), "expiry is strict")
	assert.False(t, u.AvailableAt(t0.Add(61*time.Second)))
}

func TestUserExtendIsCumulativeWhileActive(t *testing.T) {
	u := NewUser("c1", "Alice", ProfileInput{}, t0)
	u.SetAvailable(10, t0)
	before := u.AvailableUntil

	u.Extend(5, t0.Add(2*time.Minute))
	assert.Equal(t, before.Add(5*time.Minute), u.AvailableUntil)
}

func TestUserExtendRestartsWhenLapsed(t *testing.T) {
	u := NewUser("c1", "Alice", ProfileInput{}, t0)
	u.SetAvailable(1, t0)

	later := t0.Add(61 * time.Second)
	u.Extend(5, later)
	assert.Equal(t, later.Add(5*time.Minute), u.AvailableUntil)
}

func TestUserExtendWhileIdleStartsFresh(t *testing.T) {
	u := NewUser("c1", "Alice", ProfileInput{}, t0)
	u.Extend(500, t0)
	assert.Equal(t, t0.Add(MaxMinutes*time.Minute), u.AvailableUntil)
}

func TestUserDone(t *testing.T) {
	u := NewUser("c1", "Alice", ProfileInput{}, t0)
	u.SetAvailable(10, t0)
	u.Done(t0.Add(time.Second))
	assert.True(t, u.AvailableUntil.IsZero())
	assert.Equal(t, t0.Add(time.Second), u.UpdatedAt)
}

func TestUserApplyLeavesAbsentFields(t *testing.T) {
	tags := "go, infra"
	u := NewUser("c1", "Alice", ProfileInput{Tags: &tags}, t0)
	note := "by the window"
	u.Apply(ProfileInput{Note: &note})

	assert.Equal(t, "go, infra", u.Tags)
	assert.Equal(t, "by the window", u.Note)
}

func TestUserCloneIsDeep(t *testing.T) {
	kinds := []string{"coffee"}
	u := NewUser("c1", "Alice", ProfileInput{Kinds: &kinds}, t0)
	c := u.Clone()
	c.Kinds[0] = "tea"
	assert.Equal(t, "coffee", u.Kinds[0])
}
