package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		gen    func() string
	}{
		{PrefixScene, NewSceneID},
		{PrefixRoom, NewRoomID},
		{PrefixViewer, NewViewerID},
		{PrefixExport, NewExportID},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := tt.gen()
			assert.True(t, strings.HasPrefix(id, tt.prefix+"_"))
			require.NoError(t, Validate(id, tt.prefix))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	require.Error(t, Validate(NewSceneID(), PrefixRoom))
	require.Error(t, Validate("not-an-id", PrefixRoom))
	assert.NotEqual(t, NewRoomID(), NewRoomID())
}
