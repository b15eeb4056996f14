package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoGetPut(t *testing.T) {
	m := NewMemo[int](1)

	_, ok := m.Get("V1", 1)
	assert.False(t, ok)

	m.Put("V1", 1, 42)
	v, ok := m.Get("V1", 1)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestMemoPutIdempotente(t *testing.T) {
	m := NewMemo[int](1)
	m.Put("V1", 1, 42)
	m.Put("V1", 1, 99)
	v, _ := m.Get("V1", 1)
	assert.Equal(t, 42, v)
}

func TestMemoEvictaPorGeneracion(t *testing.T) {
	m := NewMemo[int](1)
	m.Put("V1", 1, 1)
	m.Put("V2", 1, 2)

	// Avanza la generación: la anterior se desaloja por completo.
	m.Put("V1", 2, 10)
	_, ok := m.Get("V1", 1)
	assert.False(t, ok)
	_, ok = m.Get("V2", 1)
	assert.False(t, ok)

	v, ok := m.Get("V1", 2)
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, m.Len())
}

func TestMemoTTLVariasGeneraciones(t *testing.T) {
	m := NewMemo[int](2)
	m.Put("V1", 1, 1)
	m.Put("V1", 2, 2)

	// Con TTL 2 la generación 1 sobrevive hasta que llegue la 3.
	_, ok := m.Get("V1", 1)
	assert.True(t, ok)

	m.Put("V1", 3, 3)
	_, ok = m.Get("V1", 1)
	assert.False(t, ok)
	_, ok = m.Get("V1", 2)
	assert.True(t, ok)
}
