package apierror

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	body, err := json.Marshal(New("Parametro cliente requerido"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"detail":"Parametro cliente requerido"}`, string(body))
}
