package judge

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuild(t *testing.T) {
	built := 0
	Register(ClientDef{
		ID:   "fakejudge",
		Name: "Fake Judge",
		Build: func(httpClient *http.Client) (Client, error) {
			built++
			return nil, nil
		},
	})

	found := false
	for _, def := range Clients() {
		if def.ID == "fakejudge" {
			found = true
		}
	}
	assert.True(t, found, "registered venue must be listed")

	_, err := Build("fakejudge", &http.Client{})
	require.NoError(t, err)
	assert.Equal(t, 1, built)

	_, err = Build("no-such-judge", &http.Client{})
	assert.Error(t, err)
}
