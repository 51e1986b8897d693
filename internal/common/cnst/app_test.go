package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "apiserver.yaml", APIServerYaml)
	assert.Equal(t, "X-Tenant-ID", HeaderTenantID)
	assert.Equal(t, "Bearer ", BearerPrefix)
	assert.NotEqual(t, LangEN, LangZH)
}
